package videobackend

var I420Frame = i420Frame

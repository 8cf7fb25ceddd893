package onnxlandmark

var (
	ToTensor      = toTensor
	Decode        = decode
	NewWithRunner = newWithRunner
	InputMean     = float32(inputMean)
	InputStd      = float32(inputStd)
)

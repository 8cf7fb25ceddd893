package process

import (
	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/video/videobackend"
)

func Stream(title string, src videobackend.Source, in *ingest.Ingestor, leases chan<- *ingest.Lease) {
	stream(title, src, in, leases)
}

func Infer(inf Inference, lease *ingest.Lease) {
	inf.infer(lease)
}

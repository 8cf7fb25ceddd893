package maskd

import (
	"context"
	"sync"

	"github.com/tauraamui/maskdaemon/pkg/configdef"
	data "github.com/tauraamui/maskdaemon/pkg/database"
	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/database/repos"
	"github.com/tauraamui/maskdaemon/pkg/detector"
	"github.com/tauraamui/maskdaemon/pkg/detector/inference"
	"github.com/tauraamui/maskdaemon/pkg/detector/onnxlandmark"
	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/maskd/process"
	"github.com/tauraamui/maskdaemon/pkg/model"
	"github.com/tauraamui/maskdaemon/pkg/present"
	"github.com/tauraamui/maskdaemon/pkg/video/affine"
	"github.com/tauraamui/maskdaemon/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
)

const windowName = "maskdaemon"

var (
	ensureModel       = model.Ensure
	initializeRuntime = inference.Initialize
	shutdownRuntime   = inference.Shutdown
	connectDB         = data.Connect
	newDetector       = func(cfg configdef.Values) (detector.Detector, error) {
		return onnxlandmark.New(cfg.ModelPath, cfg.InputSize, float32(cfg.DetectionThreshold))
	}
	newWindow = func(cfg configdef.Values) present.Presenter {
		return present.NewWindow(windowName, cfg.Display.Width, cfg.Display.Height)
	}
)

type camera struct {
	title    string
	fps      int
	source   videobackend.Source
	ingestor *ingest.Ingestor
}

type Server struct {
	shutdownDone chan interface{}
	config       configdef.Values
	backend      videobackend.Backend
	mu           sync.Mutex

	runtimeUp     bool
	invoker       *detector.Invoker
	presenter     present.Presenter
	db            dbconn.GormWrapper
	cameras       []camera
	coreProcesses []process.Process
}

// NewServer loads configuration from cr. A nil backend picks OpenCV or the
// mock source per camera from its config.
func NewServer(cr configdef.Resolver, backend videobackend.Backend) (*Server, error) {
	config, err := cr.Resolve()
	if err != nil {
		return nil, xerror.Errorf("unable to load configuration: %w", err)
	}
	if config.Debug {
		log.SetLevel("debug")
	}
	return &Server{config: config, backend: backend, shutdownDone: make(chan interface{})}, nil
}

func (s *Server) Connect() error {
	return s.connect(context.Background())
}

func (s *Server) ConnectWithCancel(cancel context.Context) error {
	return s.connect(cancel)
}

// connect brings up the detector, presenters and score log, then opens every
// enabled camera. Only detector bring up and score log failures are fatal.
func (s *Server) connect(cancel context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connectDetector(); err != nil {
		return err
	}
	s.connectPresenters()
	if err := s.connectScoreLog(); err != nil {
		return err
	}

	for _, cam := range s.config.Cameras {
		select {
		case <-cancel.Done():
			return nil
		default:
			if cam.Disabled {
				log.Warn("Camera [%s] is disabled... skipping...", cam.Title)
				continue
			}
			if err := s.connectCamera(cancel, cam); err != nil {
				log.Error("Unable to connect to camera [%s]: %v", cam.Title, err)
			}
		}
	}

	if len(s.cameras) == 0 {
		log.Warn("No cameras connected")
	}
	return nil
}

func (s *Server) connectDetector() error {
	if err := ensureModel(s.config.ModelPath, s.config.BundledModelPath); err != nil {
		return xerror.Errorf("unable to provision model: %w", err)
	}

	if err := initializeRuntime(s.config.ONNXRuntimeLibrary); err != nil {
		return xerror.Errorf("unable to start inference runtime: %w", err)
	}
	s.runtimeUp = true

	d, err := newDetector(s.config)
	if err != nil {
		return xerror.Errorf("unable to create detector: %w", err)
	}
	s.invoker = detector.NewInvoker(d)
	log.Info("Loaded landmark model: %s", s.config.ModelPath)
	return nil
}

func (s *Server) connectPresenters() {
	presenters := present.Multi{}
	if s.config.Presenter.Window {
		presenters = append(presenters, newWindow(s.config))
	}
	if addr := s.config.Presenter.HTTPAddress; len(addr) > 0 {
		h := present.NewHTTP(addr)
		h.Start()
		presenters = append(presenters, h)
	}

	switch len(presenters) {
	case 0:
		s.presenter = present.Discard{}
	case 1:
		s.presenter = presenters[0]
	default:
		s.presenter = presenters
	}
}

func (s *Server) connectScoreLog() error {
	if !s.config.ScoreLog.Enabled {
		return nil
	}
	db, err := connectDB(s.config.ScoreLog.Path)
	if err != nil {
		return xerror.Errorf("unable to open score log: %w", err)
	}
	s.db = db
	return nil
}

func (s *Server) connectCamera(ctx context.Context, cam configdef.Camera) error {
	log.Info("Connecting to camera: [%s]...", cam.Title)
	backend := s.backend
	if backend == nil {
		backend = videobackend.Resolve(cam.Mock)
	}

	src, err := backend.Open(ctx, videobackend.Settings{
		Title:    cam.Title,
		DeviceID: cam.DeviceID,
		Address:  cam.Address,
		Width:    cam.Width,
		Height:   cam.Height,
		FPS:      cam.FPS,
	})
	if err != nil {
		return err
	}

	orientation := affine.DisplayOrientation{Width: s.config.Display.Width, Height: s.config.Display.Height}
	s.cameras = append(s.cameras, camera{
		title:    cam.Title,
		fps:      cam.FPS,
		source:   src,
		ingestor: ingest.New(s.config.InputSize, orientation, ingest.WithSwapUV(s.config.SwapUV)),
	})
	log.Info("Connected successfully to camera: [%s]", cam.Title)
	return nil
}

// Shutdown stops every camera pipeline, waits for in flight detection, then
// releases the detector, presenters, cameras and runtime in that order.
func (s *Server) Shutdown() chan interface{} {
	go s.shutdown()
	return s.shutdownDone
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(s.shutdownDone)

	s.shutdownProcesses()

	if s.invoker != nil {
		log.Info("Releasing detector...")
		if err := s.invoker.Close(); err != nil {
			log.Error(err.Error())
		}
	}

	if s.presenter != nil {
		if err := s.presenter.Close(); err != nil {
			log.Error(err.Error())
		}
	}

	for _, cam := range s.cameras {
		log.Warn("Closing camera connection: [%s]...", cam.title)
		if err := cam.source.Close(); err != nil {
			log.Error("Unable to close camera [%s]: %v", cam.title, err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Unable to close score log: %v", err)
		}
	}

	if s.runtimeUp {
		if err := shutdownRuntime(); err != nil {
			log.Error("Unable to stop inference runtime: %v", err)
		}
	}
}

func (s *Server) recorder() process.Recorder {
	if s.db == nil {
		return nil
	}
	return &repos.ScoreRepository{DB: s.db}
}

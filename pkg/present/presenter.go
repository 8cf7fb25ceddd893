package present

import (
	"image"

	"github.com/tauraamui/xerror"
)

// Presenter displays an annotated frame along with a line of status text.
// Show must not keep frame after returning.
type Presenter interface {
	Show(frame *image.RGBA, status string) error
	Close() error
}

// Multi fans frames out to every presenter it holds.
type Multi []Presenter

func (m Multi) Show(frame *image.RGBA, status string) error {
	var errs []error
	for _, p := range m {
		if err := p.Show(frame, status); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors("unable to present frame", errs)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors("unable to close presenter", errs)
}

func joinErrors(msg string, errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return xerror.Errorf("%s: %w", msg, errs[0])
	default:
		return xerror.Errorf("%s: %w (and %d more)", msg, errs[0], len(errs)-1)
	}
}

// Discard drops every frame.
type Discard struct{}

func (Discard) Show(*image.RGBA, string) error { return nil }

func (Discard) Close() error { return nil }

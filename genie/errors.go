package genie

import "errors"

var (
	// ErrEmptyRect is reported when the window or anchor has no area. The
	// animation is skipped.
	ErrEmptyRect = errors.New("genie: empty rectangle")
	// ErrDetached is reported when a node is nil, disposed or not attached
	// to the scene.
	ErrDetached = errors.New("genie: node not attached to scene")
	// ErrNoScene is reported when a controller has no scene.
	ErrNoScene = errors.New("genie: controller has no scene")
	// ErrClosed is reported for animations cut short by Controller.Close
	// or started after it.
	ErrClosed = errors.New("genie: controller closed")

	errBadDataURI = errors.New("genie: not a PNG data URI")
)

package model

import "errors"

// ErrConfigInvalid is returned when a slicer parameter is out of range.
var ErrConfigInvalid = errors.New("config invalid")

// ErrMeshInvalid is returned when a mesh is empty or structurally broken.
var ErrMeshInvalid = errors.New("mesh invalid")

// ErrSessionState is returned when an operation is invoked out of lifecycle order.
var ErrSessionState = errors.New("session state error")

// ErrSessionNotFound is returned when a session id is unknown or disposed.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionBusy is returned when a session already has a slice in flight.
var ErrSessionBusy = errors.New("session busy")

// ErrLayerIndexOutOfRange is returned for layer queries outside [0, layerCount).
var ErrLayerIndexOutOfRange = errors.New("layer index out of range")

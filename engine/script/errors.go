package script

import "errors"

var (
	ErrMissingWorkflow = errors.New("script context requires a workflow definition")
	ErrMissingInstance = errors.New("script context requires a workflow instance")
	ErrMissingRuntime  = errors.New("script context requires a runtime provider")
)

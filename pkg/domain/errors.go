package domain

import "errors"

// ErrEmptySelection is returned when a run starts without any selected node.
var ErrEmptySelection = errors.New("empty selection")

// ErrNoConvertibleNodes is returned when the selection holds no paintable node.
var ErrNoConvertibleNodes = errors.New("no convertible nodes")

// ErrNodeLimitExceeded is returned when the collected node count is above the configured limit.
var ErrNodeLimitExceeded = errors.New("node limit exceeded")

// ErrVariableNotFound is returned by importers when a key is not published.
var ErrVariableNotFound = errors.New("variable not found")

// ErrRunInProgress is returned when a conversion is requested while another one holds the scene.
var ErrRunInProgress = errors.New("conversion already in progress")

// ErrInvalidRule is returned when an advanced mapping rule is malformed.
var ErrInvalidRule = errors.New("invalid mapping rule")

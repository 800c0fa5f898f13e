// Package dto decodes inbound wire messages into domain requests.
package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/recolor/pkg/domain"
)

// MessageConvert is the only inbound message type.
const MessageConvert = "convert"

// Message is the inbound envelope: {"type":"convert","payload":{"advancedRules":[...]}}.
// The payload stays untyped until the type is known.
type Message struct {
	ID      string         `json:"id,omitempty"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// DecodeConvertRequest decodes an untyped convert payload. A nil payload is an empty request.
// Enabled rules must pass domain validation; disabled ones are carried as sent.
func DecodeConvertRequest(payload map[string]any) (domain.ConvertRequest, error) {
	var req domain.ConvertRequest
	if payload == nil {
		return req, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return req, err
	}
	if err := decoder.Decode(payload); err != nil {
		return domain.ConvertRequest{}, fmt.Errorf("%w: %v", domain.ErrInvalidRule, err)
	}

	for _, rule := range req.AdvancedRules {
		if !rule.Enabled {
			continue
		}
		if err := rule.Validate(); err != nil {
			return domain.ConvertRequest{}, err
		}
	}
	return req, nil
}

// DecodeMessage checks the envelope type and decodes its payload.
func DecodeMessage(msg Message) (domain.ConvertRequest, error) {
	if msg.Type != MessageConvert {
		return domain.ConvertRequest{}, fmt.Errorf("unsupported message type %q", msg.Type)
	}
	return DecodeConvertRequest(msg.Payload)
}

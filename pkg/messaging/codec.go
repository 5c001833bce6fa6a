// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package messaging

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	MessageType string `json:"message_type"`
}

// Encode serializes a message, stamping its discriminator so hand-constructed
// messages cannot go out with an empty message_type.
func Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case WorkloadMessage:
		m.MessageType = m.Type()
		return json.Marshal(m)
	case DeleteWorkloadMessage:
		m.MessageType = m.Type()
		return json.Marshal(m)
	case WorkloadStatusMessage:
		m.MessageType = m.Type()
		return json.Marshal(m)
	case WorkloadComponentStatusMessage:
		m.MessageType = m.Type()
		return json.Marshal(m)
	case AutoDiscoveredWorkloadComponentMessage:
		m.MessageType = m.Type()
		return json.Marshal(m)
	default:
		return nil, fmt.Errorf("unsupported message type %T", msg)
	}
}

// Decode parses a message body by its message_type discriminator. Unknown
// discriminators are an error, not a silent skip.
func Decode(body []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse message envelope: %w", err)
	}

	switch env.MessageType {
	case MessageTypeWorkload:
		var m WorkloadMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MessageTypeDeleteWorkload:
		var m DeleteWorkloadMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MessageTypeWorkloadStatus:
		var m WorkloadStatusMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MessageTypeWorkloadComponentStatusUpdate:
		var m WorkloadComponentStatusMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MessageTypeAutoDiscoveredWorkloadComponent:
		var m AutoDiscoveredWorkloadComponentMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown message_type %q", env.MessageType)
	}
}

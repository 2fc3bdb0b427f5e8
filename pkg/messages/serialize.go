package messages

import (
	"encoding/json"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// Envelope field slots. The vtable offset of slot i is (i+2)*2.
const (
	envelopeClientIDSlot = 0
	envelopeTypeSlot     = 1
	envelopePayloadSlot  = 2
	envelopeNumFields    = 3
)

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	// EncodeAll and DecodeAll are safe for concurrent use on shared instances
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MessageBufferSize))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// SerializeMessage encodes a message as a zstd compressed flatbuffer envelope.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	return encoder.EncodeAll(b, make([]byte, 0, len(b))), nil
}

// DeserializeMessage decodes a message produced by SerializeMessage.
func DeserializeMessage(data []byte) (*Message, error) {
	b, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

// SerializeMessageFlatbuffer builds the envelope table: client id, type and
// the JSON payload as a byte vector.
func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	if m.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}

	builder := flatbuffers.NewBuilder(len(m.Payload) + 64)

	payload := builder.CreateByteVector(m.Payload)
	messageType := builder.CreateString(string(m.Type))
	var clientID flatbuffers.UOffsetT
	if m.ClientID != "" {
		clientID = builder.CreateString(m.ClientID)
	}

	builder.StartObject(envelopeNumFields)
	if clientID != 0 {
		builder.PrependUOffsetTSlot(envelopeClientIDSlot, clientID, 0)
	}
	builder.PrependUOffsetTSlot(envelopeTypeSlot, messageType, 0)
	builder.PrependUOffsetTSlot(envelopePayloadSlot, payload, 0)
	messageOffset := builder.EndObject()
	builder.Finish(messageOffset)

	return builder.FinishedBytes(), nil
}

// DeserializeMessageFlatbuffer reads an envelope built by SerializeMessageFlatbuffer.
func DeserializeMessageFlatbuffer(b []byte) (message *Message, err error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("envelope too short: %d bytes", len(b))
	}
	// the flatbuffers accessors panic on out of range offsets
	defer func() {
		if r := recover(); r != nil {
			message, err = nil, fmt.Errorf("malformed envelope: %v", r)
		}
	}()

	table := &flatbuffers.Table{
		Bytes: b,
		Pos:   flatbuffers.GetUOffsetT(b),
	}

	message = &Message{}
	if o := flatbuffers.UOffsetT(table.Offset(slotOffset(envelopeClientIDSlot))); o != 0 {
		message.ClientID = table.String(o + table.Pos)
	}
	if o := flatbuffers.UOffsetT(table.Offset(slotOffset(envelopeTypeSlot))); o != 0 {
		message.Type = MessageType(table.String(o + table.Pos))
	}
	if o := flatbuffers.UOffsetT(table.Offset(slotOffset(envelopePayloadSlot))); o != 0 {
		// copy out so the payload does not alias the decompression buffer
		message.Payload = append(json.RawMessage(nil), table.ByteVector(o+table.Pos)...)
	}

	if message.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}

	return message, nil
}

func slotOffset(slot int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT((slot + 2) * 2)
}

// DecodePayload unmarshals the message payload into v.
func (m *Message) DecodePayload(v interface{}) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v", m.Type, err)
	}
	return nil
}

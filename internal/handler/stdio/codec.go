// Package stdio is the process boundary of the notes CLI: it reads
// {text, mode} requests from a stream and writes one result per request.
package stdio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Request is one notes request.
type Request struct {
	Text string `json:"text" msgpack:"text"`
	Mode string `json:"mode" msgpack:"mode"`
}

// Decoder reads successive values from a stream.
type Decoder interface {
	Decode(v any) error
}

// Encoder writes successive values to a stream.
type Encoder interface {
	Encode(v any) error
}

// Codec is a wire format for requests and results.
type Codec interface {
	Name() string
	NewDecoder(r io.Reader) Decoder
	NewEncoder(w io.Writer) Encoder
}

// JSONCodec reads and writes newline-delimited JSON.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) NewDecoder(r io.Reader) Decoder {
	return json.NewDecoder(r)
}

func (JSONCodec) NewEncoder(w io.Writer) Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// MsgpackCodec reads and writes concatenated MessagePack maps.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) NewDecoder(r io.Reader) Decoder {
	return msgpack.NewDecoder(r)
}

func (MsgpackCodec) NewEncoder(w io.Writer) Encoder {
	return msgpack.NewEncoder(w)
}

// CodecByName returns the codec called name.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack", "messagepack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want json or msgpack", name)
	}
}

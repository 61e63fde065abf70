package artifact

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// IntCodec stores an int as decimal text followed by a newline.
type IntCodec struct{}

// Encode implements Codec.
func (IntCodec) Encode(v int) ([]byte, error) {
	return []byte(strconv.Itoa(v) + "\n"), nil
}

// Decode implements Codec.
func (IntCodec) Decode(data []byte) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, zerr.Wrap(err, "invalid integer")
	}
	return v, nil
}

// TextCodec stores a string verbatim.
type TextCodec struct{}

// Encode implements Codec.
func (TextCodec) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

// Decode implements Codec.
func (TextCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}

// BytesCodec stores raw bytes.
type BytesCodec struct{}

// Encode implements Codec.
func (BytesCodec) Encode(v []byte) ([]byte, error) {
	return v, nil
}

// Decode implements Codec.
func (BytesCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}

// JSONCodec stores values as indented JSON.
type JSONCodec[T any] struct{}

// Encode implements Codec.
func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal json")
	}
	return append(data, '\n'), nil
}

// Decode implements Codec.
func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, zerr.Wrap(err, "failed to unmarshal json")
	}
	return v, nil
}

// YAMLCodec stores values as YAML documents.
type YAMLCodec[T any] struct{}

// Encode implements Codec.
func (YAMLCodec[T]) Encode(v T) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal yaml")
	}
	return data, nil
}

// Decode implements Codec.
func (YAMLCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, zerr.Wrap(err, "failed to unmarshal yaml")
	}
	return v, nil
}

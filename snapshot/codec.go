package snapshot

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cohort/collection"
)

// codec converts snapshots to and from bytes.
type codec interface {
	marshal(ctx context.Context, s collection.Snapshot) ([]byte, error)
	unmarshal(ctx context.Context, data []byte, s *collection.Snapshot) error
}

type yamlCodec struct{ indent int }

func (c yamlCodec) marshal(ctx context.Context, s collection.Snapshot) ([]byte, error) {
	return yaml.MarshalContext(ctx, s, yaml.Indent(c.indent), yaml.IndentSequence(true))
}

func (yamlCodec) unmarshal(ctx context.Context, data []byte, s *collection.Snapshot) error {
	return yaml.UnmarshalContext(ctx, data, s)
}

type jsonCodec struct{ indent string }

func (c jsonCodec) marshal(_ context.Context, s collection.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", c.indent)
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func (jsonCodec) unmarshal(_ context.Context, data []byte, s *collection.Snapshot) error {
	return json.Unmarshal(data, s)
}

// cborCodec uses core deterministic encoding, so equal snapshots produce
// identical bytes.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (cborCodec, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	enc, err := opts.EncMode()
	if err != nil {
		return cborCodec{}, err
	}

	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return cborCodec{}, err
	}

	return cborCodec{enc: enc, dec: dec}, nil
}

func (c cborCodec) marshal(_ context.Context, s collection.Snapshot) ([]byte, error) {
	return c.enc.Marshal(s)
}

func (c cborCodec) unmarshal(_ context.Context, data []byte, s *collection.Snapshot) error {
	return c.dec.Unmarshal(data, s)
}

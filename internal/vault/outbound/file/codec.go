package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
	"go.yaml.in/yaml/v3"
)

// record is the persisted form of one credential. Size is the legacy name
// of Digits and is only read, never written. Absent numbers take the
// defaults; an explicit zero is kept so validation rejects it.
type record struct {
	Secret string  `json:"secret" yaml:"secret"`
	Digits *int    `json:"digits,omitempty" yaml:"digits,omitempty"`
	Size   *int    `json:"size,omitempty" yaml:"size,omitempty"`
	Period *uint64 `json:"period,omitempty" yaml:"period,omitempty"`
}

type document map[string]record

type codec interface {
	Name() string
	Marshal(doc document) ([]byte, error)
	Unmarshal(data []byte, doc *document) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(doc document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, doc *document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(doc); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after top-level object")
	}

	return nil
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(doc document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func (yamlCodec) Unmarshal(data []byte, doc *document) error {
	return yaml.Unmarshal(data, doc)
}

// codecFor picks the codec from the file extension; anything that is not
// YAML is treated as JSON.
func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

func decode(c codec, data []byte) (*entity.Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return entity.NewRegistry(), nil
	}

	var doc document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrCorruptStore, c.Name(), err)
	}

	items := make(map[string]entity.Credential, len(doc))
	for name, rec := range doc {
		digits := otp.DefaultDigits
		switch {
		case rec.Digits != nil:
			digits = *rec.Digits
		case rec.Size != nil:
			digits = *rec.Size
		}

		period := otp.DefaultPeriod
		if rec.Period != nil {
			period = *rec.Period
		}

		items[name] = entity.NewCredential(rec.Secret, digits, period)
	}

	reg, err := entity.NewRegistryFrom(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCorruptStore, err)
	}

	return reg, nil
}

func encode(c codec, reg *entity.Registry) ([]byte, error) {
	doc := make(document, reg.Len())
	for name, cred := range reg.All() {
		doc[name] = record{
			Secret: cred.Secret,
			Digits: &cred.Digits,
			Period: &cred.Period,
		}
	}

	return c.Marshal(doc)
}

package tablerender

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigSyntax names a table definition file syntax.
type ConfigSyntax string

const (
	SyntaxYAML ConfigSyntax = "yaml"
	SyntaxTOML ConfigSyntax = "toml"
)

// TableConfig is a declarative table definition.
type TableConfig struct {
	ID         string            `yaml:"id" toml:"id"`
	Hidden     bool              `yaml:"hidden" toml:"hidden"`
	Class      string            `yaml:"class" toml:"class"`
	Style      string            `yaml:"style" toml:"style"`
	Attributes map[string]string `yaml:"attributes" toml:"attributes"`

	Caption   string `yaml:"caption" toml:"caption"`
	Header    string `yaml:"header" toml:"header"`
	Footer    string `yaml:"footer" toml:"footer"`
	ColGroups string `yaml:"colgroups" toml:"colgroups"`

	HeaderClass   string `yaml:"headerClass" toml:"headerClass"`
	FooterClass   string `yaml:"footerClass" toml:"footerClass"`
	CaptionClass  string `yaml:"captionClass" toml:"captionClass"`
	CaptionStyle  string `yaml:"captionStyle" toml:"captionStyle"`
	ColumnClasses string `yaml:"columnClasses" toml:"columnClasses"`
	RowClasses    string `yaml:"rowClasses" toml:"rowClasses"`
	BodyRows      string `yaml:"bodyrows" toml:"bodyrows"`

	Rows  int `yaml:"rows" toml:"rows"`
	First int `yaml:"first" toml:"first"`

	Columns []ColumnConfig `yaml:"columns" toml:"columns"`
}

// ColumnConfig is a declarative column definition. Value is a Go
// text/template executed against each row's item.
type ColumnConfig struct {
	ID          string `yaml:"id" toml:"id"`
	Hidden      bool   `yaml:"hidden" toml:"hidden"`
	RowHeader   bool   `yaml:"rowHeader" toml:"rowHeader"`
	Header      string `yaml:"header" toml:"header"`
	Footer      string `yaml:"footer" toml:"footer"`
	Value       string `yaml:"value" toml:"value"`
	HeaderClass string `yaml:"headerClass" toml:"headerClass"`
	FooterClass string `yaml:"footerClass" toml:"footerClass"`
	StyleClass  string `yaml:"styleClass" toml:"styleClass"`
}

// SyntaxFor returns the config syntax implied by a file extension.
func SyntaxFor(path string) (ConfigSyntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".toml":
		return SyntaxTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedConfig, path)
	}
}

// LoadConfig reads a table definition, choosing the syntax by extension.
func LoadConfig(path string) (*TableConfig, error) {
	syntax, err := SyntaxFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data, syntax)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a table definition. Unknown keys are rejected.
func ParseConfig(data []byte, syntax ConfigSyntax) (*TableConfig, error) {
	var cfg TableConfig
	switch syntax {
	case SyntaxYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case SyntaxTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfig, syntax)
	}
	return &cfg, nil
}

// BuildTable builds a Table bound to src from cfg.
func BuildTable[T any](cfg *TableConfig, src RowSource[T]) (*Table, error) {
	t := &Table{
		ID:            cfg.ID,
		Hidden:        cfg.Hidden,
		StyleClass:    cfg.Class,
		Style:         cfg.Style,
		Attributes:    cfg.Attributes,
		HeaderClass:   cfg.HeaderClass,
		FooterClass:   cfg.FooterClass,
		CaptionClass:  cfg.CaptionClass,
		CaptionStyle:  cfg.CaptionStyle,
		ColumnClasses: cfg.ColumnClasses,
		RowClasses:    cfg.RowClasses,
		BodyRows:      cfg.BodyRows,
		Rows:          cfg.Rows,
		First:         cfg.First,
		Caption:       optionalText(cfg.Caption),
		Header:        optionalText(cfg.Header),
		Footer:        optionalText(cfg.Footer),
		Data:          src,
	}
	if cfg.ColGroups != "" {
		t.ColGroups = Raw(cfg.ColGroups)
	}
	for i, cc := range cfg.Columns {
		col := &Column{
			ID:          cc.ID,
			Hidden:      cc.Hidden,
			RowHeader:   cc.RowHeader,
			HeaderClass: cc.HeaderClass,
			FooterClass: cc.FooterClass,
			StyleClass:  cc.StyleClass,
			Header:      optionalText(cc.Header),
			Footer:      optionalText(cc.Footer),
		}
		if col.ID == "" {
			col.ID = fmt.Sprintf("column%d", i)
		}
		if cc.Value != "" {
			value, err := Template(src, cc.Value)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.ID, err)
			}
			col.Children = []Component{value}
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

func optionalText(s string) Component {
	if s == "" {
		return nil
	}
	return Text(s)
}

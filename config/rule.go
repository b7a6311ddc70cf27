// Package config holds the already-parsed rule configuration the core
// consumes (spec §1, §6) plus the CLI-facing decode hooks and YAML loader
// that produce it, built the way gcsfuse's cfg package decodes its own
// string-typed enums.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

func pathFromConfig(raw string) (pwpath.Path, bool) {
	return pwpath.New(raw)
}

// RuleConfig is one already-parsed filesystem rule, the shape
// `[]config.RuleConfig` that spec §1/§6 hands to the core. Field names
// mirror the original INI's keys; the INI syntax itself is out of scope
// here (an external concern), so this struct is what any front end -
// including this repository's own CLI - is expected to produce.
type RuleConfig struct {
	Name            string                 `mapstructure:"Name" yaml:"name"`
	OriginDirectory string                 `mapstructure:"OriginDirectory" yaml:"originDirectory"`
	TargetDirectory string                 `mapstructure:"TargetDirectory" yaml:"targetDirectory"`
	FilePatterns    []string               `mapstructure:"FilePatterns" yaml:"filePatterns"`
	RedirectMode    rulestore.RedirectMode `mapstructure:"RedirectMode" yaml:"redirectMode"`
}

// File is the top-level shape of a rule file: a bare list of rules plus the
// default directory-information class the CLI's simulate subcommand should
// assume when a scripted operation does not specify one.
type File struct {
	Rules            []RuleConfig     `mapstructure:"Rules" yaml:"rules"`
	DefaultInfoClass layout.InfoClass `mapstructure:"DefaultInfoClass" yaml:"defaultInfoClass"`
}

var redirectModeNames = map[string]rulestore.RedirectMode{
	"simple":  rulestore.Simple,
	"overlay": rulestore.Overlay,
}

var infoClassNames = map[string]layout.InfoClass{
	"filedirectory":           layout.FileDirectory,
	"filefulldirectory":       layout.FileFullDirectory,
	"filebothdirectory":       layout.FileBothDirectory,
	"filenames":               layout.FileNames,
	"fileidbothdirectory":     layout.FileIdBothDirectory,
	"fileidfulldirectory":     layout.FileIdFullDirectory,
	"fileidglobaltxdirectory": layout.FileIdGlobalTxDirectory,
	"fileidextddirectory":     layout.FileIdExtdDirectory,
	"fileidextdbothdirectory": layout.FileIdExtdBothDirectory,
}

// decodeHookFunc mirrors gcsfuse's cfg.hookFunc: a mapstructure hook that
// recognizes the handful of string-typed enums this package defines and
// rejects anything it does not recognize, instead of silently zero-valuing
// it.
func decodeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		switch t {
		case reflect.TypeOf(rulestore.Simple):
			mode, ok := redirectModeNames[strings.ToLower(s)]
			if !ok {
				return nil, fmt.Errorf("config: invalid redirect mode: %s", s)
			}
			return mode, nil
		case reflect.TypeOf(layout.FileDirectory):
			class, ok := infoClassNames[strings.ToLower(s)]
			if !ok {
				return nil, fmt.Errorf("config: invalid directory information class: %s", s)
			}
			return class, nil
		default:
			return data, nil
		}
	}
}

// DecodeHook returns the composed mapstructure decode hook used whenever a
// RuleConfig or File is decoded from a generic map (e.g. by viper).
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		decodeHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// BuildRules adds every rule in f to b, stopping at the first rejection.
// The returned name identifies which rule was rejected; it is empty on
// success.
func (f File) BuildRules(b *rulestore.Builder) (name string, reason rulestore.RejectReason) {
	for _, rc := range f.Rules {
		origin, ok := pathFromConfig(rc.OriginDirectory)
		if !ok {
			return rc.Name, rulestore.RejectInvalidPath
		}
		target, ok := pathFromConfig(rc.TargetDirectory)
		if !ok {
			return rc.Name, rulestore.RejectInvalidPath
		}
		if r := b.AddRule(rc.Name, origin, target, rc.FilePatterns, rc.RedirectMode); r != rulestore.RejectNone {
			return rc.Name, r
		}
	}
	return "", rulestore.RejectNone
}

// LoadFile reads a YAML rule file from path and decodes it into a File,
// routing the decode through DecodeHook so RedirectMode and InfoClass
// string values are validated and converted the same way viper-sourced
// settings are (spec §A.3).
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: reading rule file: %w", err)
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return File{}, fmt.Errorf("config: parsing rule file: %w", err)
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &f,
	})
	if err != nil {
		return File{}, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return File{}, fmt.Errorf("config: decoding rule file: %w", err)
	}
	return f, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

var validate = validator.New()

// Load builds the configuration from defaults overlaid with HANDJOINTS_*
// environment variables, then validates it.
func Load() (*Config, error) {
	return load(nil)
}

// load takes an optional environment lookup for tests.
func load(environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	opt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}
	if environ != nil {
		opt.EnvironFunc = environ
	}
	if err := k.Load(env.Provider(".", opt), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// transformEnvKey maps HANDJOINTS_TRACKER_CONFIDENCE_CUTOFF to
// tracker.confidence_cutoff: the first segment is the section, the rest is
// the field name.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' })
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], value
	}
	return parts[0] + "." + strings.Join(parts[1:], "_"), value
}

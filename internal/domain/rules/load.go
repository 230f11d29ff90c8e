package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
)

var rulesValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("timing", func(fl validator.FieldLevel) bool {
		return validTiming(fl.Field().String())
	})
	_ = v.RegisterValidation("shauhinstart", func(fl validator.FieldLevel) bool {
		switch ShauhinStart(fl.Field().String()) {
		case ShauhinAfterPremiere, ShauhinAfterMerge, ShauhinBeforeFinale, ShauhinCustom:
			return true
		}
		return false
	})
	return v
}

// Validate checks field constraints and cross-field rules.
func (r LeagueRules) Validate() error {
	if err := rulesValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	for name := range r.Base {
		if !broadcast.IsBaseEvent(name) {
			return fmt.Errorf("%w: unknown base event %q", ErrInvalidRules, name)
		}
	}
	for name := range r.BasePredictions {
		if !broadcast.IsBaseEvent(name) {
			return fmt.Errorf("%w: unknown prediction event %q", ErrInvalidRules, name)
		}
	}

	seen := make(map[string]struct{}, len(r.Custom))
	for _, rule := range r.Custom {
		if broadcast.IsBaseEvent(broadcast.EventName(rule.Name)) {
			return fmt.Errorf("%w: custom rule %q shadows a base event", ErrInvalidRules, rule.Name)
		}
		if _, ok := seen[rule.Name]; ok {
			return fmt.Errorf("%w: duplicate custom rule %q", ErrInvalidRules, rule.Name)
		}
		seen[rule.Name] = struct{}{}
		if rule.Kind == CustomPrediction && len(rule.Timing) == 0 {
			return fmt.Errorf("%w: custom prediction %q has no timing", ErrInvalidRules, rule.Name)
		}
	}

	if r.Shauhin.StartWeek == ShauhinCustom && r.Shauhin.CustomStartEpisode <= 0 {
		return fmt.Errorf("%w: custom shauhin start needs an episode", ErrInvalidRules)
	}
	return nil
}

// Parse decodes YAML rules on top of the defaults and validates them.
func Parse(data []byte) (LeagueRules, error) {
	out := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return LeagueRules{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidRules, err)
	}
	if err := out.Validate(); err != nil {
		return LeagueRules{}, err
	}
	return out, nil
}

// LoadFile reads league rules from a YAML file.
func LoadFile(path string) (LeagueRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LeagueRules{}, fmt.Errorf("read rules file %s: %w", path, err)
	}
	return Parse(data)
}

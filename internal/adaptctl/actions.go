package adaptctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"adaptd/internal/engine"
	"adaptd/internal/mcptools"
	"adaptd/internal/model"
	"adaptd/internal/pattern"
	"adaptd/internal/synth"
	"adaptd/pkg/types"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fnDetect prints every matching pattern and the selection winner.
func fnDetect(text string) error {
	det := pattern.NewDetector(nil)
	type matchOut struct {
		Kind     string  `json:"kind"`
		Weight   float64 `json:"weight"`
		Strength float64 `json:"strength"`
		Selected bool    `json:"selected"`
	}
	matches := det.Detect(text)
	selected, _ := det.Select(text)
	out := make([]matchOut, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchOut{
			Kind:     string(m.Spec.Kind),
			Weight:   m.Spec.Weight,
			Strength: m.Strength,
			Selected: m.Spec.Kind == selected.Spec.Kind,
		})
	}
	return printJSON(map[string]any{"detected": len(matches) > 0, "matches": out})
}

// fnExtract prints the extracted examples and live query for the selected
// pattern.
func fnExtract(text string) error {
	det := pattern.NewDetector(nil)
	match, ok := det.Select(text)
	if !ok {
		return fmt.Errorf("no pattern detected")
	}
	ext, err := pattern.Extract(text, match.Spec)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"pattern":    match.Spec.Kind,
		"examples":   ext.Examples,
		"live_query": ext.Query,
	})
}

// fnSynth prints the leave-one-out training set for the selected pattern.
func fnSynth(text string) error {
	det := pattern.NewDetector(nil)
	match, ok := det.Select(text)
	if !ok {
		return fmt.Errorf("no pattern detected")
	}
	ext, err := pattern.Extract(text, match.Spec)
	if err != nil {
		return err
	}
	instances, err := synth.Build(ext.Examples)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"pattern":   match.Spec.Kind,
		"instances": instances,
	})
}

// fnRun exercises the full pipeline with the deterministic stub model.
func fnRun(text string, disableAdaptation bool) error {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	base := model.NewDeterministic(model.DefaultEmbeddingDim)
	defer base.Close()
	eng := engine.New(engine.Config{}, base, nil, log)

	content, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{
		Prompt:            text,
		DisableAdaptation: disableAdaptation,
	})
	if err != nil {
		return err
	}
	return printJSON(types.GenerateResponse{Done: true, Content: content, Adaptation: st})
}

// fnServeMCP serves the adaptation tools over stdio until the client
// disconnects.
func fnServeMCP(modelPath string) error {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	var base model.BaseModel
	if modelPath != "" {
		m, err := model.NewLlama(modelPath, 0, 0)
		if err != nil {
			return err
		}
		base = m
	} else {
		base = model.NewDeterministic(model.DefaultEmbeddingDim)
	}
	defer base.Close()

	eng := engine.New(engine.Config{}, base, nil, log)
	s := mcptools.NewServer(eng, pattern.NewDetector(nil))
	return mcptools.ServeStdio(s)
}

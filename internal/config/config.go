package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/oconcat/internal/fsys"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/dusk-indust/oconcat/internal/sourcemap"
	"github.com/dusk-indust/oconcat/internal/transform"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names looked up in a project directory.
var FileNames = []string{"oconcat.yml", "oconcat.yaml"}

// ErrNoConfig is returned by Find when no config file exists.
var ErrNoConfig = errors.New("no oconcat.yml found")

// ProjectConfig holds project-level settings loaded from oconcat.yml.
type ProjectConfig struct {
	// Options apply to every target; a target's own options override them.
	Options Options `yaml:"options,omitempty"`

	// Data is the template context for banners, footers and processed files.
	Data map[string]any `yaml:"data,omitempty"`

	Targets []TargetConfig `yaml:"targets"`
}

// TargetConfig is one destination in the config file.
type TargetConfig struct {
	Name    string   `yaml:"name,omitempty"`
	Dest    string   `yaml:"dest"`
	Src     Patterns `yaml:"src"`
	Options Options  `yaml:"options,omitempty"`
}

// Options mirrors orchestrator.Options with every field optional, so that
// target options can be layered over project options.
type Options struct {
	Separator      *string       `yaml:"separator,omitempty"`
	Banner         *string       `yaml:"banner,omitempty"`
	Footer         *string       `yaml:"footer,omitempty"`
	StripBanners   *StripBanners `yaml:"stripBanners,omitempty"`
	Process        *Process      `yaml:"process,omitempty"`
	SourceMap      *bool         `yaml:"sourceMap,omitempty"`
	SourceMapName  *string       `yaml:"sourceMapName,omitempty"`
	SourceMapStyle *string       `yaml:"sourceMapStyle,omitempty"`
	Root           *string       `yaml:"root,omitempty"`
	Force          *bool         `yaml:"force,omitempty"`
}

// Patterns is a list of source globs. A single string is accepted too.
type Patterns []string

// UnmarshalYAML accepts a scalar or a sequence.
func (p *Patterns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = Patterns{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// StripBanners is either a bool or a {block, line} object. The object form
// enables stripping.
type StripBanners struct {
	Enabled bool
	Block   bool `yaml:"block,omitempty"`
	Line    bool `yaml:"line,omitempty"`
}

// UnmarshalYAML accepts a bool or an object.
func (s *StripBanners) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.Enabled)
	}
	var obj struct {
		Block bool `yaml:"block"`
		Line  bool `yaml:"line"`
	}
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("stripBanners: %w", err)
	}
	*s = StripBanners{Enabled: true, Block: obj.Block, Line: obj.Line}
	return nil
}

// Process is either a bool or a {data} object. Enabled files are rendered as
// templates with the project data, extended by Data.
type Process struct {
	Enabled bool
	Data    map[string]any `yaml:"data,omitempty"`
}

// UnmarshalYAML accepts a bool or an object.
func (p *Process) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Enabled)
	}
	var obj struct {
		Data map[string]any `yaml:"data"`
	}
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("process: %w", err)
	}
	*p = Process{Enabled: true, Data: obj.Data}
	return nil
}

// Load attempts to read oconcat.yml or oconcat.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNoConfig) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// Find returns the path of the config file in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoConfig)
}

// LoadFile reads and parses the config file at path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Names returns the target names in config order.
func (c *ProjectConfig) Names() []string {
	names := make([]string, len(c.Targets))
	for i, t := range c.Targets {
		names[i] = t.DisplayName()
	}
	return names
}

// DisplayName returns Name, or Dest when Name is empty.
func (t TargetConfig) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Dest
}

// ResolveTargets resolves the named targets, or every target when names is empty,
// into merge targets. Source patterns are expanded under baseDir.
func (c *ProjectConfig) ResolveTargets(baseDir string, names ...string) ([]orchestrator.Target, error) {
	selected, err := c.selectTargets(names)
	if err != nil {
		return nil, err
	}
	out := make([]orchestrator.Target, 0, len(selected))
	for _, tc := range selected {
		t, err := c.resolve(baseDir, tc)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", tc.DisplayName(), err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *ProjectConfig) selectTargets(names []string) ([]TargetConfig, error) {
	if len(names) == 0 {
		return c.Targets, nil
	}
	byName := make(map[string]TargetConfig, len(c.Targets))
	for _, t := range c.Targets {
		byName[t.DisplayName()] = t
	}
	out := make([]TargetConfig, 0, len(names))
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown target %q (available: %v)", name, c.Names())
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *ProjectConfig) resolve(baseDir string, tc TargetConfig) (orchestrator.Target, error) {
	if tc.Dest == "" {
		return orchestrator.Target{}, orchestrator.ErrNoDestination
	}
	sources, err := fsys.Expand(baseDir, tc.Src)
	if err != nil {
		return orchestrator.Target{}, err
	}
	opts, err := c.Options.Merge(tc.Options).Resolve(c.Data)
	if err != nil {
		return orchestrator.Target{}, err
	}
	return orchestrator.Target{
		Name:    tc.DisplayName(),
		Dest:    tc.Dest,
		Sources: sources,
		Options: opts,
	}, nil
}

// Merge returns o with every field set in over replacing its own.
func (o Options) Merge(over Options) Options {
	out := o
	if over.Separator != nil {
		out.Separator = over.Separator
	}
	if over.Banner != nil {
		out.Banner = over.Banner
	}
	if over.Footer != nil {
		out.Footer = over.Footer
	}
	if over.StripBanners != nil {
		out.StripBanners = over.StripBanners
	}
	if over.Process != nil {
		out.Process = over.Process
	}
	if over.SourceMap != nil {
		out.SourceMap = over.SourceMap
	}
	if over.SourceMapName != nil {
		out.SourceMapName = over.SourceMapName
	}
	if over.SourceMapStyle != nil {
		out.SourceMapStyle = over.SourceMapStyle
	}
	if over.Root != nil {
		out.Root = over.Root
	}
	if over.Force != nil {
		out.Force = over.Force
	}
	return out
}

// Resolve applies o over orchestrator.DefaultOptions. data becomes the
// template context of the banner, the footer and processed files.
func (o Options) Resolve(data map[string]any) (orchestrator.Options, error) {
	opts := orchestrator.DefaultOptions()
	opts.Data = data
	if o.Separator != nil {
		opts.Separator = *o.Separator
	}
	if o.Banner != nil {
		opts.Banner = *o.Banner
	}
	if o.Footer != nil {
		opts.Footer = *o.Footer
	}
	if o.StripBanners != nil {
		opts.StripBanners = transform.StripOptions(*o.StripBanners)
	}
	if o.Process != nil && o.Process.Enabled {
		opts.Process = transform.TemplateProcess(mergeData(data, o.Process.Data))
	}
	if o.SourceMap != nil {
		opts.SourceMap = *o.SourceMap
	}
	if o.SourceMapName != nil && *o.SourceMapName != "" {
		opts.SourceMapName = orchestrator.LiteralMapName(*o.SourceMapName)
	}
	if o.SourceMapStyle != nil {
		style, err := sourcemap.ParseStyle(*o.SourceMapStyle)
		if err != nil {
			return orchestrator.Options{}, err
		}
		opts.SourceMapStyle = style.Name()
	}
	if o.Root != nil && *o.Root != "" {
		opts.Root = *o.Root
	}
	if o.Force != nil {
		opts.Force = *o.Force
	}
	return opts, nil
}

// mergeData returns a copy of base with extra layered on top.
func mergeData(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

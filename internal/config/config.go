package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/esa-reader/internal/reader"
)

const (
	defaultAPIEndpoint = "https://api.esa.io"
	defaultPerPage     = 20
	maxPerPage         = 100
	defaultDBName      = "esa-reader.db"

	EnvWorkspace = "ESA_READER_WORKSPACE"
	EnvToken     = "ESA_READER_TOKEN"
)

var ErrNoWorkspaces = errors.New("config has no workspaces")

// Config is the on-disk configuration file.
type Config struct {
	CurrentWorkspace string               `yaml:"current_workspace,omitempty"`
	DBPath           string               `yaml:"db_path,omitempty"`
	Workspaces       map[string]Workspace `yaml:"workspaces"`
	Theme            Theme                `yaml:"theme,omitempty"`

	Path string `yaml:"-"`
}

type Workspace struct {
	TeamName    string    `yaml:"team_name"`
	APIEndpoint string    `yaml:"api_endpoint,omitempty"`
	Token       string    `yaml:"token,omitempty"`
	TokenEnv    string    `yaml:"token_env,omitempty"`
	PerPage     int       `yaml:"per_page,omitempty"`
	PostViews   PostViews `yaml:"post_views,omitempty"`
	Theme       Theme     `yaml:"theme,omitempty"`
}

// Theme colors are #rrggbb strings. Empty fields inherit.
type Theme struct {
	Primary string `yaml:"primary,omitempty"`
	Muted   string `yaml:"muted,omitempty"`
	Accent  string `yaml:"accent,omitempty"`
	Error   string `yaml:"error,omitempty"`
	Success string `yaml:"success,omitempty"`
	Warning string `yaml:"warning,omitempty"`
	Link    string `yaml:"link,omitempty"`
}

// Merge returns t with every non-empty field of over applied on top.
func (t Theme) Merge(over Theme) Theme {
	pick := func(base, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return base
	}
	return Theme{
		Primary: pick(t.Primary, over.Primary),
		Muted:   pick(t.Muted, over.Muted),
		Accent:  pick(t.Accent, over.Accent),
		Error:   pick(t.Error, over.Error),
		Success: pick(t.Success, over.Success),
		Warning: pick(t.Warning, over.Warning),
		Link:    pick(t.Link, over.Link),
	}
}

type PostView struct {
	Key   string `yaml:"-"`
	Title string `yaml:"title,omitempty"`
	Query string `yaml:"query,omitempty"`
}

// PostViews decodes from a YAML mapping and keeps the mapping's key order.
type PostViews []PostView

func (v *PostViews) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: post_views must be a mapping", node.Line)
	}
	out := make(PostViews, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		view := PostView{Key: keyNode.Value}
		if valueNode.Kind != yaml.ScalarNode || valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&view); err != nil {
				return fmt.Errorf("post view %q: %w", keyNode.Value, err)
			}
		}
		view.Key = keyNode.Value
		if strings.TrimSpace(view.Title) == "" {
			view.Title = view.Key
		}
		out = append(out, view)
	}
	*v = out
	return nil
}

func (v PostViews) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, view := range v {
		var value yaml.Node
		if err := value.Encode(PostView{Title: view.Title, Query: view.Query}); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: view.Key}, &value)
	}
	return node, nil
}

// Load reads and parses the config file at path. It does not validate.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	for name, ws := range cfg.Workspaces {
		if ws.APIEndpoint == "" {
			ws.APIEndpoint = defaultAPIEndpoint
		}
		if ws.PerPage == 0 {
			ws.PerPage = defaultPerPage
		}
		cfg.Workspaces[name] = ws
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Workspaces) == 0 {
		return ErrNoWorkspaces
	}
	for _, name := range c.WorkspaceNames() {
		if err := c.Workspaces[name].validate(); err != nil {
			return fmt.Errorf("workspace %q: %w", name, err)
		}
	}
	if c.CurrentWorkspace != "" {
		if _, ok := c.Workspaces[c.CurrentWorkspace]; !ok {
			return fmt.Errorf("current_workspace %q is not defined", c.CurrentWorkspace)
		}
	}
	return nil
}

func (w Workspace) validate() error {
	if strings.TrimSpace(w.TeamName) == "" {
		return errors.New("team_name is required")
	}
	if w.Token == "" && w.TokenEnv == "" && os.Getenv(EnvToken) == "" {
		return fmt.Errorf("token or token_env is required (or set %s)", EnvToken)
	}
	u, err := url.Parse(w.APIEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_endpoint must be an http(s) URL: %s", w.APIEndpoint)
	}
	if strings.HasSuffix(w.APIEndpoint, "/") {
		return fmt.Errorf("api_endpoint must not end with '/': %s", w.APIEndpoint)
	}
	if w.PerPage < 1 || w.PerPage > maxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d: %d", maxPerPage, w.PerPage)
	}
	seen := make(map[string]string, len(w.PostViews))
	for _, view := range w.PostViews {
		if other, ok := seen[view.Title]; ok {
			return fmt.Errorf("post views %q and %q share the title %q", other, view.Key, view.Title)
		}
		seen[view.Title] = view.Key
	}
	return nil
}

// WorkspaceNames returns the workspace names in alphabetical order.
func (c Config) WorkspaceNames() []string {
	names := make([]string, 0, len(c.Workspaces))
	for name := range c.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolved is the workspace the app runs against, with secrets and theme
// overrides applied.
type Resolved struct {
	Name        string
	TeamName    string
	APIEndpoint string
	Token       string
	PerPage     int
	Views       []reader.View
	Theme       Theme
	DBPath      string
}

// Resolve picks a workspace: the explicit name, then ESA_READER_WORKSPACE, then
// current_workspace, then the alphabetically first one.
func (c Config) Resolve(name string) (Resolved, error) {
	if len(c.Workspaces) == 0 {
		return Resolved{}, ErrNoWorkspaces
	}
	for _, candidate := range []string{name, os.Getenv(EnvWorkspace), c.CurrentWorkspace} {
		if candidate == "" {
			continue
		}
		if _, ok := c.Workspaces[candidate]; !ok {
			return Resolved{}, fmt.Errorf("workspace %q is not defined (have %s)", candidate, strings.Join(c.WorkspaceNames(), ", "))
		}
		name = candidate
		break
	}
	if name == "" {
		name = c.WorkspaceNames()[0]
	}

	ws := c.Workspaces[name]
	token := ws.Token
	if ws.TokenEnv != "" {
		if v := os.Getenv(ws.TokenEnv); v != "" {
			token = v
		}
	}
	if v := os.Getenv(EnvToken); v != "" {
		token = v
	}
	if token == "" {
		return Resolved{}, fmt.Errorf("workspace %q: no token available", name)
	}

	return Resolved{
		Name:        name,
		TeamName:    ws.TeamName,
		APIEndpoint: ws.APIEndpoint,
		Token:       token,
		PerPage:     ws.PerPage,
		Views:       ws.Views(),
		Theme:       c.Theme.Merge(ws.Theme),
		DBPath:      c.ResolvedDBPath(),
	}, nil
}

func (w Workspace) Views() []reader.View {
	views := make([]reader.View, 0, len(w.PostViews))
	for _, v := range w.PostViews {
		views = append(views, reader.View{Title: v.Title, Query: v.Query})
	}
	return views
}

// ResolvedDBPath defaults the database next to the config file.
func (c Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	if c.Path != "" {
		return filepath.Join(filepath.Dir(c.Path), defaultDBName)
	}
	return defaultDBName
}

// Starter builds the config written by the init command.
func Starter(team, token, endpoint string) Config {
	if endpoint == "" {
		endpoint = defaultAPIEndpoint
	}
	return Config{
		CurrentWorkspace: team,
		Workspaces: map[string]Workspace{
			team: {
				TeamName:    team,
				APIEndpoint: endpoint,
				Token:       token,
				PerPage:     defaultPerPage,
				PostViews: PostViews{
					{Key: "recent", Title: "Recent"},
					{Key: "mine", Title: "Mine", Query: "user:me"},
					{Key: "watching", Title: "Watching", Query: "watched:true"},
					{Key: "starred", Title: "Starred", Query: "starred:true"},
					{Key: "wip", Title: "WIP", Query: "wip:true sort:updated"},
				},
			},
		},
	}
}

func Encode(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

var ErrConfigExists = errors.New("config file already exists")

// Write stores cfg at path with 0600 permissions. Without force an existing
// file is left alone and ErrConfigExists is returned.
func Write(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

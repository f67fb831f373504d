package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by ByName, or the file path
	Name        string `json:"name"`               // Display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "config"
	FilePath    string `json:"filePath,omitempty"` // Path to JSON description (config type only)
}

type builtinScene struct {
	info  SceneInfo
	build func(width int) *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{ID: "default", Name: "Default Scene",
			Description: "Diffuse and metal spheres with a capped cylinder on a ground plane"},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{ID: "single-sphere", Name: "Single Sphere",
			Description: "One diffuse sphere in front of the camera"},
		build: NewSingleSphereScene,
	},
	{
		info: SceneInfo{ID: "cylinders", Name: "Cylinders",
			Description: "Capped cylinders in several orientations"},
		build: NewCylinderScene,
	},
	{
		info: SceneInfo{ID: "sphere-grid", Name: "Sphere Grid",
			Description: "10x10 grid of colored metal spheres"},
		build: NewSphereGridScene,
	},
}

// Names returns the names of the built-in scenes
func Names() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.ID
	}
	return names
}

// ByName builds the named built-in scene at the given image width.
// A non-positive width uses DefaultWidth.
func ByName(name string, width int) (*Scene, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build(width), nil
		}
	}
	return nil, fmt.Errorf("scene %q: %w (available: %s)", name, ErrUnknownScene, strings.Join(Names(), ", "))
}

// ListConfigScenes scans dir for JSON scene descriptions. A missing
// directory yields an empty list.
func ListConfigScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := configSceneInfo(filePath)
		if err != nil {
			// Skip unreadable files but keep scanning
			fmt.Printf("Warning: failed to read scene %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the descriptions in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.Type = "builtin"
		scenes = append(scenes, info)
	}

	configScenes, err := ListConfigScenes(dir)
	if err != nil {
		return nil, err
	}
	return append(scenes, configScenes...), nil
}

// configSceneInfo reads the name and description of a JSON scene description
func configSceneInfo(filePath string) (SceneInfo, error) {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	base := filepath.Base(filePath)
	info := SceneInfo{
		ID:          filePath,
		Name:        cfg.Name,
		Description: cfg.Description,
		Type:        "config",
		FilePath:    filePath,
	}
	if info.Name == "" {
		info.Name = titleCase(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return info, nil
}

// titleCase converts a filename-style string to title case
// e.g., "mirror-room" -> "Mirror Room"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

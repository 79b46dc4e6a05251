package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Built-in scene identifiers
const (
	DefaultSceneID    = "default"
	SphereGridSceneID = "sphere-grid"
	EmptySceneID      = "empty"
)

const (
	fileScenePrefix = "file:"
	sceneFileExt    = ".scene"
	builtinGroup    = "Built-in Scenes"
)

// ErrUnknownScene is returned by CreateScene for a name that matches no scene
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier, accepted by CreateScene
	Name        string `json:"name"`               // Scene name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// BuiltinScenes returns the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          DefaultSceneID,
			Name:        "Default Scene",
			Description: "Sphere resting on a ground sphere under a sky gradient",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		{
			ID:          SphereGridSceneID,
			Name:        "Sphere Grid",
			Description: "Grid of small spheres on the ground sphere",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		{
			ID:          EmptySceneID,
			Name:        "Empty Scene",
			Description: "Sky gradient only",
			Group:       builtinGroup,
			Type:        "builtin",
		},
	}
}

// FindScenesDir returns the first scenes directory found relative to the
// working directory, or "" if there is none
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListFileScenes scans dir for .scene files and returns their metadata
func ListFileScenes(dir string) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+sceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from scene file header comments
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	// Fallback values if the header says nothing
	sceneInfo := SceneInfo{
		ID:       fileScenePrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok && strings.TrimSpace(value) != "" {
			sceneInfo.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Group:"); ok && strings.TrimSpace(value) != "" {
			sceneInfo.Group = strings.TrimSpace(value)
		}
	}

	return sceneInfo, scanner.Err()
}

// ListScenes returns the built-in scenes followed by any scene files in the
// scenes directory
func ListScenes() []SceneInfo {
	scenes := BuiltinScenes()
	fileScenes, err := ListFileScenes(FindScenesDir())
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		return scenes
	}
	return append(scenes, fileScenes...)
}

// ListAllScenes returns every scene, grouped by category
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range ListScenes() {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)
	groupNames = append([]string{builtinGroup}, groupNames...)

	for _, groupName := range groupNames {
		if scenes, ok := groupMap[groupName]; ok {
			response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: scenes})
		}
	}

	return response
}

// CreateScene builds the scene with the given ID. Accepted forms are a
// built-in ID, "file:<name>" for a file in the scenes directory, or a path
// to a .scene file.
func CreateScene(id string) (*Scene, error) {
	switch id {
	case DefaultSceneID:
		return NewDefaultScene(), nil
	case SphereGridSceneID:
		return NewSphereGridScene(), nil
	case EmptySceneID:
		return NewEmptyScene(), nil
	}

	if strings.HasPrefix(id, fileScenePrefix) {
		fileScenes, err := ListFileScenes(FindScenesDir())
		if err != nil {
			return nil, err
		}
		for _, info := range fileScenes {
			if info.ID == id {
				return NewSceneFromFile(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}

	if strings.EqualFold(filepath.Ext(id), sceneFileExt) {
		if _, err := os.Stat(id); err == nil {
			return NewSceneFromFile(id)
		}
	}

	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}

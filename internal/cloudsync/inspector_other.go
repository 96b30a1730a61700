//go:build !unix

package cloudsync

// fallbackInspector treats every file as plain local content on platforms
// without a placeholder heuristic
type fallbackInspector struct{}

// NewPlatformInspector returns the inspector for the current platform
func NewPlatformInspector() Inspector {
	return &fallbackInspector{}
}

func (i *fallbackInspector) Inspect(path string) (FileState, error) {
	return StateNotCloudBacked, nil
}

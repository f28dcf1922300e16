package cache

import "time"

// Key kinds, the first segment of every key.
const (
	KindSolve    = "solve"
	KindAnimate  = "animate"
	KindArtifact = "artifact"
	KindScene    = "scene"
)

// Entry lifetimes passed to [Cache.Set] by the pipeline.
const (
	TTLSolve    = 24 * time.Hour
	TTLAnimate  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLScene    = 24 * time.Hour
)

// keyVersion is bumped when the encoding of cached values changes.
const keyVersion = "v1"

// Keyer derives cache keys.
type Keyer interface {
	SolveKey(sceneHash string, opts SolveKeyOpts) string
	AnimateKey(sceneHash string, opts AnimateKeyOpts) string
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
	// SceneKey addresses a stored scene document by its content hash.
	SceneKey(sceneHash string) string
}

// SolveKeyOpts are the options that change a solved layout.
type SolveKeyOpts struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	WidthMode    string `json:"width_mode"`
	HeightMode   string `json:"height_mode"`
	Optimization int    `json:"optimization"`
	Direct       bool   `json:"direct"`
}

// AnimateKeyOpts are the options that change a sampled animation.
type AnimateKeyOpts struct {
	SolveKeyOpts
	Frames   int           `json:"frames"`
	Duration time.Duration `json:"duration"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
	Labels  bool    `json:"labels"`
	Helpers bool    `json:"helpers"`
}

// DefaultKeyer hashes the scene hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SolveKey(sceneHash string, opts SolveKeyOpts) string {
	return hashKey(KindSolve, keyVersion, sceneHash, opts)
}

func (DefaultKeyer) AnimateKey(sceneHash string, opts AnimateKeyOpts) string {
	return hashKey(KindAnimate, keyVersion, sceneHash, opts)
}

func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, keyVersion, resultHash, opts)
}

func (DefaultKeyer) SceneKey(sceneHash string) string {
	return hashKey(KindScene, keyVersion, sceneHash)
}

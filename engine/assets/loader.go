package assets

import "github.com/spaghettifunk/planar/engine/resources"

type Loader interface {
	Load(path string) (*resources.Resource, error)
	Unload(*resources.Resource) error
}

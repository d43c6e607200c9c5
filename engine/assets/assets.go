// Package assets indexes the packaged asset directory, keeps the index
// current while files change on disk, and turns model files into scene nodes.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/planar/engine/assets/loaders"
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/resources"
)

type AssetInfo struct {
	// Path is relative to the assets directory, slash separated.
	Path     string
	Type     resources.ResourceType
	Modified time.Time
}

type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	cache   map[string]*resources.Resource
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		cache:    make(map[string]*resources.Resource),
		loaders:  make(map[resources.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("assets directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("assets directory %s is not a directory", assetsDir)
	}
	am.root = root

	// Register loaders
	am.registerLoader(resources.ResourceTypeScene, &loaders.SceneLoader{})
	am.registerLoader(resources.ResourceTypeMesh, &loaders.ObjLoader{})
	am.registerLoader(resources.ResourceTypeMaterial, &loaders.MaterialLoader{})

	am.started = true
	go am.start()
	if err := am.addRecursive(root); err != nil {
		return err
	}

	core.LogInfo("indexed %d assets in %s", am.Len(), assetsDir)
	return nil
}

// Close stops watching the assets directory.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if !am.started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Has reports whether path is indexed.
func (am *AssetManager) Has(path string) bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.assets[normalize(path)]
	return ok
}

func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Assets lists the index sorted by path.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	am.mutex.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// LoadAsset loads an indexed asset through the loader registered for its
// type. Results are cached until the file changes on disk.
func (am *AssetManager) LoadAsset(path string) (*resources.Resource, error) {
	key := normalize(path)

	am.mutex.RLock()
	asset, exists := am.assets[key]
	cached := am.cache[key]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, core.ErrAssetNotFound)
	}
	if cached != nil {
		return cached, nil
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("%s (%s): %w", path, asset.Type, core.ErrUnknownAssetType)
	}
	resource, err := loader.Load(filepath.Join(am.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.cache[key] = resource
	am.mutex.Unlock()
	return resource, nil
}

func (am *AssetManager) UnloadAsset(path string) error {
	key := normalize(path)
	am.mutex.Lock()
	resource, ok := am.cache[key]
	delete(am.cache, key)
	am.mutex.Unlock()
	if !ok {
		return nil
	}
	if loader, ok := am.loaders[resource.Type]; ok {
		return loader.Unload(resource)
	}
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("could not watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted entry, so try to drop it from both the
			// index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(fullPath string) {
	key, ok := am.relative(fullPath)
	if !ok {
		return
	}
	assetType := determineAssetType(key)
	if assetType == resources.ResourceTypeNone {
		return
	}

	modified := time.Now()
	if fi, err := os.Stat(fullPath); err == nil {
		modified = fi.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, reload := am.cache[key]; reload {
		core.LogDebug("asset %s changed, dropping cached copy", key)
		delete(am.cache, key)
	}
	am.assets[key] = AssetInfo{
		Path:     key,
		Type:     assetType,
		Modified: modified,
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(fullPath string) {
	key, ok := am.relative(fullPath)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, key)
	delete(am.cache, key)
}

func (am *AssetManager) relative(fullPath string) (string, bool) {
	rel, err := filepath.Rel(am.root, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func normalize(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

func determineAssetType(path string) resources.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scn":
		return resources.ResourceTypeScene
	case ".obj":
		return resources.ResourceTypeMesh
	case ".amt":
		return resources.ResourceTypeMaterial
	default:
		return resources.ResourceTypeNone
	}
}

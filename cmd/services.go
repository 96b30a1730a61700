package cmd

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fjellvarden/peakview/internal/auth"
	"github.com/fjellvarden/peakview/internal/cache"
	"github.com/fjellvarden/peakview/internal/cloudsync"
	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/githost"
	"github.com/fjellvarden/peakview/internal/gitremote"
	"github.com/fjellvarden/peakview/internal/indexer"
	"github.com/fjellvarden/peakview/internal/logging"
)

// openFolderCache loads the folder status cache from the config directory
func openFolderCache() (*cache.FolderIndexCache, error) {
	path, err := config.GetFolderCachePath()
	if err != nil {
		return nil, eris.Wrap(err, "failed to resolve folder cache path")
	}
	return cache.NewFolderIndexCache(path), nil
}

// openRepoCache loads the repository cache from the config directory
func openRepoCache() (*cache.RemoteRepositoryCache, error) {
	path, err := config.GetRepoCachePath()
	if err != nil {
		return nil, eris.Wrap(err, "failed to resolve repository cache path")
	}
	return cache.NewRemoteRepositoryCache(path), nil
}

// openTokenStore returns the file-backed token store
func openTokenStore() (*auth.FileTokenStore, error) {
	path, err := config.GetTokenPath()
	if err != nil {
		return nil, eris.Wrap(err, "failed to resolve token path")
	}
	return auth.NewFileTokenStore(path), nil
}

// newHostClient builds a hosting API client over the shared repository cache
func newHostClient(repos *cache.RemoteRepositoryCache) *githost.Client {
	return githost.NewClient(githost.NewHTTPTransport(), repos, config.GetAPIBaseURL())
}

// newIndexer wires the platform inspector and remote parser into an indexer
func newIndexer(folders *cache.FolderIndexCache, repos *cache.RemoteRepositoryCache) *indexer.Indexer {
	classifier := cloudsync.NewClassifier(cloudsync.NewPlatformInspector())
	parser := gitremote.NewParser(nil)
	return indexer.New(classifier, parser, folders, repos)
}

// refreshRepos opportunistically refreshes the cached repository list. A
// missing token or a failed fetch is logged and never blocks the local
// listing; the stale cached list keeps serving.
func refreshRepos(ctx context.Context, client *githost.Client, store auth.TokenProvider) {
	token, ok := store.Token()
	if !ok {
		logging.L().Debug("no hosting token stored, skipping repository refresh")
		return
	}
	if _, err := client.FetchAll(ctx, token, false); err != nil {
		logging.L().Warn("repository refresh failed, using cached list", zap.Error(err))
	}
}

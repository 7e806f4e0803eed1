package archive_test

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/archive"
	"github.com/shelfmark/shelfmark/internal/readiness"
)

const (
	headCommitConstant                = "abc1234def5678"
	archiveContentConstant            = "tarball-bytes"
	successfulBuildCaseNameConstant   = "successful_build_writes_the_bundle"
	checksumContentCaseNameConstant   = "checksums_cover_the_archive"
	metadataContentCaseNameConstant   = "deposit_metadata_maps_the_citation"
	codemetaCopyCaseNameConstant      = "codemeta_copied_when_present"
	missingTagCaseNameConstant        = "missing_release_tag_surfaces_check_hint"
	citationContentConstant           = "cff-version: 1.2.0\ntitle: Example Project\nversion: 1.2.3\nlicense: MIT\nauthors:\n  - family-names: Curie\n    given-names: Marie\n"
)

type stubArchiveRepository struct {
	tagNames        []string
	headCommit      string
	tagCommits      map[string]string
	recordedPrefix  string
	recordedTag     string
}

func (repository *stubArchiveRepository) ListTags(context.Context, string) ([]string, error) {
	return repository.tagNames, nil
}

func (repository *stubArchiveRepository) HeadCommit(context.Context, string) (string, error) {
	return repository.headCommit, nil
}

func (repository *stubArchiveRepository) ResolveTagCommit(_ context.Context, _ string, tagName string) (string, error) {
	return repository.tagCommits[tagName], nil
}

func (repository *stubArchiveRepository) WriteArchive(_ context.Context, _ string, tagName string, archivePrefix string, outputPath string) error {
	repository.recordedTag = tagName
	repository.recordedPrefix = archivePrefix
	return os.WriteFile(outputPath, []byte(archiveContentConstant), 0o644)
}

func taggedRepository() *stubArchiveRepository {
	return &stubArchiveRepository{
		tagNames:   []string{"v1.2.3"},
		headCommit: headCommitConstant,
		tagCommits: map[string]string{"v1.2.3": headCommitConstant},
	}
}

func preparedProject(testInstance *testing.T) string {
	testInstance.Helper()
	projectPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(projectPath, "CITATION.cff"), []byte(citationContentConstant), 0o644))
	return projectPath
}

func TestBuildBundle(testInstance *testing.T) {
	testInstance.Run(successfulBuildCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := preparedProject(subtestInstance)
		repository := taggedRepository()

		releaseBundle, buildError := archive.NewBuilder(repository).BuildBundle(context.Background(), projectPath, "release")

		require.NoError(subtestInstance, buildError)
		require.Equal(subtestInstance, "v1.2.3", releaseBundle.Tag.Tag)
		require.Equal(subtestInstance, "v1.2.3", repository.recordedTag)
		projectName := filepath.Base(projectPath)
		require.Equal(subtestInstance, projectName+"-v1.2.3/", repository.recordedPrefix)
		require.Equal(subtestInstance, filepath.Join(projectPath, "release", "v1.2.3"), releaseBundle.Directory)
		for _, bundleFile := range releaseBundle.Files {
			_, statError := os.Stat(bundleFile)
			require.NoError(subtestInstance, statError)
		}
	})

	testInstance.Run(checksumContentCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := preparedProject(subtestInstance)
		repository := taggedRepository()

		releaseBundle, buildError := archive.NewBuilder(repository).BuildBundle(context.Background(), projectPath, "release")
		require.NoError(subtestInstance, buildError)

		checksumContent, readError := os.ReadFile(filepath.Join(releaseBundle.Directory, "checksums.txt"))
		require.NoError(subtestInstance, readError)
		expectedDigest := sha256.Sum256([]byte(archiveContentConstant))
		expectedLine := fmt.Sprintf("%x  %s\n", expectedDigest, filepath.Base(releaseBundle.ArchivePath))
		require.Equal(subtestInstance, expectedLine, string(checksumContent))
	})

	testInstance.Run(metadataContentCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := preparedProject(subtestInstance)
		repository := taggedRepository()

		releaseBundle, buildError := archive.NewBuilder(repository).BuildBundle(context.Background(), projectPath, "release")
		require.NoError(subtestInstance, buildError)

		metadataContent, readError := os.ReadFile(filepath.Join(releaseBundle.Directory, "metadata.json"))
		require.NoError(subtestInstance, readError)
		var depositMetadata map[string]any
		require.NoError(subtestInstance, json.Unmarshal(metadataContent, &depositMetadata))
		require.Equal(subtestInstance, "Example Project", depositMetadata["title"])
		require.Equal(subtestInstance, "software", depositMetadata["upload_type"])
		require.Equal(subtestInstance, "1.2.3", depositMetadata["version"])
	})

	testInstance.Run(codemetaCopyCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := preparedProject(subtestInstance)
		require.NoError(subtestInstance, os.WriteFile(filepath.Join(projectPath, "codemeta.json"), []byte("{}\n"), 0o644))
		repository := taggedRepository()

		releaseBundle, buildError := archive.NewBuilder(repository).BuildBundle(context.Background(), projectPath, "release")
		require.NoError(subtestInstance, buildError)

		_, statError := os.Stat(filepath.Join(releaseBundle.Directory, "codemeta.json"))
		require.NoError(subtestInstance, statError)
	})

	testInstance.Run(missingTagCaseNameConstant, func(subtestInstance *testing.T) {
		projectPath := preparedProject(subtestInstance)
		repository := &stubArchiveRepository{headCommit: headCommitConstant}

		_, buildError := archive.NewBuilder(repository).BuildBundle(context.Background(), projectPath, "release")

		require.ErrorIs(subtestInstance, buildError, readiness.ErrNoReleaseTag)
	})
}

package archive

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shelfmark/shelfmark/internal/citation"
	"github.com/shelfmark/shelfmark/internal/readiness"
	"github.com/shelfmark/shelfmark/internal/zenodo"
)

const (
	archiveNameTemplateConstant     = "%s-%s.tar.gz"
	archivePrefixTemplateConstant   = "%s-%s/"
	checksumsFileNameConstant       = "checksums.txt"
	checksumLineTemplateConstant    = "%x  %s\n"
	metadataFileNameConstant        = "metadata.json"
	codemetaFileNameConstant        = "codemeta.json"
	bundleDirectoryPermissions      = 0o755
	bundleFilePermissions           = 0o644
	checksumFailureTemplateConstant = "unable to checksum %s: %w"
	copyFailureTemplateConstant     = "unable to copy %s into the bundle: %w"
)

// Repository exposes the repository operations needed to package a release.
type Repository interface {
	readiness.TagResolver
	WriteArchive(executionContext context.Context, repositoryPath string, tagName string, archivePrefix string, outputPath string) error
}

// Bundle describes the release bundle produced by a build.
type Bundle struct {
	Tag         readiness.TagInfo
	Directory   string
	ArchivePath string
	Files       []string
}

// Builder packages the tagged release tree into a distributable bundle.
type Builder struct {
	repository Repository
}

// NewBuilder constructs a Builder over the provided repository.
func NewBuilder(repository Repository) *Builder {
	return &Builder{repository: repository}
}

// BuildBundle resolves the release tag, archives its tree, and writes the
// bundle (archive, checksums, deposit metadata, citation files) under
// archiveDirectory inside the project.
func (builder *Builder) BuildBundle(executionContext context.Context, projectPath string, archiveDirectory string) (Bundle, error) {
	tagInfo, tagError := readiness.ResolveReleaseTag(executionContext, builder.repository, projectPath)
	if tagError != nil {
		return Bundle{}, tagError
	}

	citationDocument, citationError := citation.Load(projectPath)
	if citationError != nil {
		return Bundle{}, citationError
	}

	projectName := filepath.Base(projectPath)
	bundleDirectory := filepath.Join(projectPath, archiveDirectory, tagInfo.Tag)
	if directoryError := os.MkdirAll(bundleDirectory, bundleDirectoryPermissions); directoryError != nil {
		return Bundle{}, directoryError
	}

	archiveName := fmt.Sprintf(archiveNameTemplateConstant, projectName, tagInfo.Tag)
	archivePath := filepath.Join(bundleDirectory, archiveName)
	archivePrefix := fmt.Sprintf(archivePrefixTemplateConstant, projectName, tagInfo.Tag)
	if archiveError := builder.repository.WriteArchive(executionContext, projectPath, tagInfo.Tag, archivePrefix, archivePath); archiveError != nil {
		return Bundle{}, archiveError
	}

	bundleFiles := []string{archivePath}

	checksumsPath := filepath.Join(bundleDirectory, checksumsFileNameConstant)
	if checksumError := writeChecksums(checksumsPath, archivePath); checksumError != nil {
		return Bundle{}, checksumError
	}
	bundleFiles = append(bundleFiles, checksumsPath)

	metadataPath := filepath.Join(bundleDirectory, metadataFileNameConstant)
	if metadataError := writeDepositMetadata(metadataPath, citationDocument); metadataError != nil {
		return Bundle{}, metadataError
	}
	bundleFiles = append(bundleFiles, metadataPath)

	citationPath := filepath.Join(bundleDirectory, citation.FileName)
	if copyError := copyProjectFile(filepath.Join(projectPath, citation.FileName), citationPath); copyError != nil {
		return Bundle{}, copyError
	}
	bundleFiles = append(bundleFiles, citationPath)

	codemetaSourcePath := filepath.Join(projectPath, codemetaFileNameConstant)
	if _, statError := os.Stat(codemetaSourcePath); statError == nil {
		codemetaPath := filepath.Join(bundleDirectory, codemetaFileNameConstant)
		if copyError := copyProjectFile(codemetaSourcePath, codemetaPath); copyError != nil {
			return Bundle{}, copyError
		}
		bundleFiles = append(bundleFiles, codemetaPath)
	}

	return Bundle{
		Tag:         *tagInfo,
		Directory:   bundleDirectory,
		ArchivePath: archivePath,
		Files:       bundleFiles,
	}, nil
}

func writeChecksums(checksumsPath string, archivePath string) error {
	archiveFile, openError := os.Open(archivePath)
	if openError != nil {
		return fmt.Errorf(checksumFailureTemplateConstant, filepath.Base(archivePath), openError)
	}
	defer archiveFile.Close()

	checksumDigest := sha256.New()
	if _, copyError := io.Copy(checksumDigest, archiveFile); copyError != nil {
		return fmt.Errorf(checksumFailureTemplateConstant, filepath.Base(archivePath), copyError)
	}

	checksumLine := fmt.Sprintf(checksumLineTemplateConstant, checksumDigest.Sum(nil), filepath.Base(archivePath))
	return os.WriteFile(checksumsPath, []byte(checksumLine), bundleFilePermissions)
}

func writeDepositMetadata(metadataPath string, citationDocument *citation.Document) error {
	depositMetadata := zenodo.BuildDepositMetadata(citationDocument, "")
	metadataContent, encodeError := json.MarshalIndent(depositMetadata, "", "  ")
	if encodeError != nil {
		return encodeError
	}
	return os.WriteFile(metadataPath, append(metadataContent, '\n'), bundleFilePermissions)
}

func copyProjectFile(sourcePath string, destinationPath string) error {
	fileContent, readError := os.ReadFile(sourcePath)
	if readError != nil {
		return fmt.Errorf(copyFailureTemplateConstant, filepath.Base(sourcePath), readError)
	}
	return os.WriteFile(destinationPath, fileContent, bundleFilePermissions)
}

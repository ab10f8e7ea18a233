// Package app is the application layer between the CLI and the engine. It
// constructs all dependencies from config, exposes high-level operations on
// raw string inputs, and records mutating commands in the history store.
package app

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toss-go/internal/config"
	"toss-go/internal/database"
	"toss-go/internal/fs"
	"toss-go/internal/project"
	"toss-go/internal/thumb"
	"toss-go/internal/toss"
)

// operationRecord tracks the CLI command being run. Only mutating commands
// persist it to the history store (giving it a non-zero id).
type operationRecord struct {
	ID         int64
	Name       string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
}

func (op *operationRecord) persisted() bool { return op.ID != 0 }

// TossApp wires the engine together for one CLI invocation.
// The caller must call Close when done.
type TossApp struct {
	cfg     *config.Config
	service *toss.Service
	thumbs  *thumb.Cache
	history database.Store // nil when the history store could not be opened
	logger  toss.Logger
	clock   toss.Clock
	op      *operationRecord
	logFile *os.File
}

// NewTossApp creates a fully wired TossApp from the given config.
// operation identifies the CLI command being run (e.g. "ExecuteTriage").
func NewTossApp(cfg *config.Config, operation string) (*TossApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := toss.RealClock{}

	dbCfg := cfg.Database
	if dbCfg.DataDir == "" {
		dbCfg.DataDir = cfg.DataDir
	}
	history, err := database.NewStoreFromConfig(dbCfg)
	if err != nil {
		// History is an audit trail, not a dependency of the engine: a
		// broken history database must not block triage.
		logger.Warn("history store unavailable", "error", err)
		history = nil
	}

	fsmgr := fs.NewOSFilesystemManager()
	svc := toss.NewService(
		project.NewStore(),
		project.NewMetadataStore(),
		project.NewFileRegistry(filepath.Join(cfg.DataDir, "projects.json")),
		fsmgr,
		fs.NewXDGTrasher(""),
		logger,
		clock,
		toss.UUIDGenerator{},
	)

	return &TossApp{
		cfg:     cfg,
		service: svc,
		thumbs:  thumb.NewCache(filepath.Join(cfg.CacheDir, "thumbnails"), nil),
		history: history,
		logger:  logger,
		clock:   clock,
		op:      &operationRecord{Name: operation, Status: "success", StartedAt: clock.Now()},
		logFile: logFile,
	}, nil
}

// persistOperation records the operation in the history store. Called only
// by mutating commands; failures are logged, never fatal.
func (a *TossApp) persistOperation(parameters string) {
	if a.history == nil || a.op.persisted() {
		return
	}
	a.op.Parameters = parameters
	id, err := a.history.CreateOperation(a.op.Name, parameters, a.op.StartedAt)
	if err != nil {
		a.logger.Warn("recording operation", "error", err)
		return
	}
	a.op.ID = id
}

// fail marks the operation record as failed when err is non-nil.
func (a *TossApp) fail(err error) error {
	if err != nil {
		a.op.Status = "error"
	}
	return err
}

// CreateProject sanitizes the name, creates the project directory under
// outputPath, and registers the project.
func (a *TossApp) CreateProject(name, outputPath string) (*toss.Project, error) {
	a.persistOperation(fmt.Sprintf("name=%s path=%s", name, outputPath))
	p, err := a.service.CreateProject(name, outputPath)
	return p, a.fail(err)
}

// DeleteProject detaches a project from the registry; its files are left
// untouched.
func (a *TossApp) DeleteProject(projectID string) error {
	a.persistOperation("id=" + projectID)
	return a.fail(a.service.DeleteProject(projectID))
}

// ListProjects returns summaries for every registered project.
func (a *TossApp) ListProjects() ([]toss.ProjectSummary, error) {
	return a.service.ListProjects()
}

// GetProject loads a project config by directory.
func (a *TossApp) GetProject(projectDir string) (*toss.Project, error) {
	return a.service.GetProject(projectDir)
}

// SetOutputMode updates the project's output directory mode without touching
// the output tree.
func (a *TossApp) SetOutputMode(projectDir, mode string) error {
	a.persistOperation(fmt.Sprintf("project=%s mode=%s", projectDir, mode))
	return a.fail(a.service.UpdateOutputMode(projectDir, toss.OutputDirectoryMode(mode)))
}

// AddFolder adds a source folder to a project.
func (a *TossApp) AddFolder(projectDir, sourcePath, mode string) (*toss.Folder, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, a.fail(fmt.Errorf("resolving source path: %w", err))
	}
	a.persistOperation(fmt.Sprintf("project=%s source=%s", projectDir, abs))
	f, err := a.service.AddFolder(projectDir, abs, toss.OutputMode(mode))
	return f, a.fail(err)
}

// RemoveFolder detaches a folder from a project.
func (a *TossApp) RemoveFolder(projectDir, folderID string) error {
	a.persistOperation(fmt.Sprintf("project=%s folder=%s", projectDir, folderID))
	return a.fail(a.service.RemoveFolder(projectDir, folderID))
}

// FolderStats returns image counts for one folder.
func (a *TossApp) FolderStats(projectDir, folderID string) (*toss.FolderStats, error) {
	return a.service.FolderStats(projectDir, folderID)
}

// ProjectStats returns project-wide keep/maybe counts.
func (a *TossApp) ProjectStats(projectDir string) (*toss.ProjectStats, error) {
	return a.service.ProjectStats(projectDir)
}

// ListImages lists the images directly inside a directory.
func (a *TossApp) ListImages(dir string) ([]toss.ImageInfo, error) {
	return a.service.ListImages(dir)
}

// ListOutputImages lists the images sorted into a classification, with
// provenance.
func (a *TossApp) ListOutputImages(projectDir, classification string) ([]toss.OutputImage, error) {
	return a.service.ListOutputImages(projectDir, classification)
}

// ExecuteTriage commits a classification batch for one folder.
func (a *TossApp) ExecuteTriage(projectDir, folderID string, batch toss.Batch) error {
	a.persistOperation(fmt.Sprintf("project=%s folder=%s keep=%d maybe=%d discard=%d",
		projectDir, folderID, len(batch.Keep), len(batch.Maybe), len(batch.Discard)))
	return a.fail(a.service.ExecuteTriage(projectDir, folderID, batch))
}

// Migrate rewrites the project's output tree toward the target mode, updates
// the stored mode, and returns the collision renames.
func (a *TossApp) Migrate(projectDir, targetMode string) ([]string, error) {
	target := toss.OutputDirectoryMode(targetMode)

	p, err := a.service.GetProject(projectDir)
	if err != nil {
		return nil, a.fail(err)
	}
	if p.OutputDirectoryMode == target {
		return nil, a.fail(fmt.Errorf("project already uses %s layout", target))
	}

	a.persistOperation(fmt.Sprintf("project=%s target=%s", projectDir, target))

	conflicts, err := a.service.Migrate(projectDir, target)
	if err != nil {
		return nil, a.fail(err)
	}
	if err := a.service.UpdateOutputMode(projectDir, target); err != nil {
		return conflicts, a.fail(err)
	}
	return conflicts, nil
}

// MoveToTrash sends arbitrary paths to the platform trash.
func (a *TossApp) MoveToTrash(paths []string) error {
	a.persistOperation(fmt.Sprintf("count=%d", len(paths)))
	return a.fail(a.service.Trash(paths))
}

// GetThumbnail returns a JPEG data URL for a cached thumbnail of the image,
// generating it on a cache miss. size <= 0 uses the configured default.
func (a *TossApp) GetThumbnail(path string, size int) (string, error) {
	if size <= 0 {
		size = a.cfg.ThumbnailSize
	}
	data, err := a.thumbs.Get(path, size)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// GetImageDataURL returns the full-resolution image as a data URL.
func (a *TossApp) GetImageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(path), base64.StdEncoding.EncodeToString(data)), nil
}

// History returns the most recent recorded operations.
func (a *TossApp) History(limit int) ([]database.Operation, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history store unavailable")
	}
	return a.history.ListOperations(limit)
}

// Close finalizes the operation record and releases resources.
func (a *TossApp) Close() error {
	var firstErr error

	if a.history != nil {
		if a.op.persisted() {
			if err := a.history.FinishOperation(a.op.ID, a.op.Status, a.clock.Now()); err != nil {
				firstErr = fmt.Errorf("finishing operation record: %w", err)
			}
		}
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing history store: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// mimeTypeFor maps an image extension to its MIME type, defaulting to PNG.
func mimeTypeFor(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}

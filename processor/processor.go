package processor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"metalflow-app/models"
	"metalflow-app/utils"
	"metalflow-app/wms/pickinglist"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	processedFolder = "processed"
	failedFolder    = "failed"
)

var inboxExtensions = map[string]bool{".txt": true, ".csv": true, ".xlsx": true}

// DefaultRouting mengarahkan line ke area berdasarkan tipe line
type DefaultRouting struct {
	SheetAreaID uint
	CoilAreaID  uint
}

func (r DefaultRouting) For(doc *pickinglist.ImportDocument) map[int]uint {
	routing := make(map[int]uint, len(doc.Lines))
	for _, line := range doc.Lines {
		if !line.LineNumberValid {
			continue
		}
		areaID := r.CoilAreaID
		if line.LineType() == models.LineTypeSheet {
			areaID = r.SheetAreaID
		}
		if areaID != 0 {
			routing[line.LineNumber] = areaID
		}
	}
	return routing
}

type FileResult struct {
	File    string                     `json:"file"`
	Summary *pickinglist.ImportSummary `json:"summary,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

type Report struct {
	Processed []FileResult `json:"processed"`
	Failed    []FileResult `json:"failed"`
	Skipped   []string     `json:"skipped"`
}

type Processor struct {
	DB      *gorm.DB
	Service *pickinglist.Service
	Dir     string
	UserID  string
	Routing DefaultRouting
}

func NewProcessor(db *gorm.DB, svc *pickinglist.Service, dir, userID string, routing DefaultRouting) *Processor {
	return &Processor{DB: db, Service: svc, Dir: dir, UserID: userID, Routing: routing}
}

// Run memproses semua file di folder inbox. File sukses dipindah ke processed/,
// file gagal ke failed/. Satu file gagal tidak menghentikan file lain.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	log := utils.LoggerFromContext(ctx).WithField("dir", p.Dir)

	if p.UserID == "" {
		return nil, errors.New("inbox user is not configured")
	}
	for _, folder := range []string{processedFolder, failedFolder} {
		if err := os.MkdirAll(filepath.Join(p.Dir, folder), 0o755); err != nil {
			return nil, errors.Wrap(err, "prepare inbox folders")
		}
	}

	files, err := p.pendingFiles()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		info, err := os.Stat(file)
		if err != nil {
			log.WithError(err).Warn("Gagal membaca file")
			continue
		}
		modified := info.ModTime().UTC().Truncate(time.Second)

		if p.alreadyProcessed(info.Name(), modified) {
			log.WithField("file", info.Name()).Info("File sudah pernah diproses, skip")
			report.Skipped = append(report.Skipped, info.Name())
			continue
		}

		result := p.processFile(ctx, file)
		entry := models.ImportFileLog{Filename: info.Name(), DateModified: modified, Status: models.FileProcessed}
		target := processedFolder
		if result.Error != "" {
			entry.Status = models.FileFailed
			entry.Message = result.Error
			target = failedFolder
			report.Failed = append(report.Failed, result)
		} else {
			entry.ImportID = result.Summary.ImportID
			report.Processed = append(report.Processed, result)
		}

		if err := p.DB.Create(&entry).Error; err != nil {
			log.WithError(err).Error("Gagal menyimpan file log")
		}
		if err := moveFile(file, filepath.Join(p.Dir, target, info.Name())); err != nil {
			log.WithError(err).WithField("file", info.Name()).Error("Gagal memindahkan file")
		}
	}

	log.WithFields(logrus.Fields{
		"processed": len(report.Processed),
		"failed":    len(report.Failed),
		"skipped":   len(report.Skipped),
	}).Info("Inbox selesai diproses")
	return report, nil
}

func (p *Processor) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "read inbox folder")
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !inboxExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(p.Dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (p *Processor) alreadyProcessed(name string, modified time.Time) bool {
	var logs []models.ImportFileLog
	if err := p.DB.Where("filename = ? AND status = ?", name, models.FileProcessed).Find(&logs).Error; err != nil {
		return false
	}
	for _, l := range logs {
		if l.DateModified.Equal(modified) {
			return true
		}
	}
	return false
}

func (p *Processor) processFile(ctx context.Context, path string) FileResult {
	name := filepath.Base(path)
	result := FileResult{File: name}
	log := utils.LoggerFromContext(ctx).WithField("file", name)

	file, err := os.Open(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	doc, err := pickinglist.ParseFile(name, file)
	file.Close()
	if err != nil {
		log.WithError(err).Warn("Gagal parse file")
		result.Error = err.Error()
		return result
	}

	summary, err := p.Service.CommitDocument(ctx, doc, p.UserID, p.Routing.For(doc), pickinglist.SourceInbox)
	if err != nil {
		var validationErr *pickinglist.ValidationError
		if errors.As(err, &validationErr) {
			result.Error = strings.Join(validationErr.Errors, "; ")
		} else {
			result.Error = err.Error()
		}
		log.WithField("reason", result.Error).Warn("Import gagal")
		return result
	}

	result.Summary = summary
	log.WithField("picking_list_no", summary.PickingListNumber).Info("Import berhasil")
	return result
}

// moveFile menyalin file lalu menghapus file asal, waktu modifikasi ikut dipertahankan
func moveFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	destinationFile, err := os.Create(dst)
	if err != nil {
		sourceFile.Close()
		return err
	}

	_, err = io.Copy(destinationFile, sourceFile)
	sourceFile.Close()
	if cerr := destinationFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	return os.Remove(src)
}

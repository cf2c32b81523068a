package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"DueReportSaas/internal/config"

	"github.com/sirupsen/logrus"
)

type LoggerService struct {
	Config        map[string]interface{}
	log           *logrus.Logger
	file          *os.File
	mu            sync.Mutex
	stopCh        chan struct{}
	wg            sync.WaitGroup
	currentLog    string
	maxFileBytes  int64
	retentionDays int
	folderPath    string
	console       bool
}

func NewLoggerService(cfg map[string]interface{}) *LoggerService {
	folder := config.String(cfg, "folder_path", "./logs")

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	levelName := os.Getenv("LOG_LEVEL")
	if levelName == "" {
		levelName = config.String(cfg, "level", "info")
	}
	if level, err := logrus.ParseLevel(levelName); err == nil {
		log.SetLevel(level)
	}

	return &LoggerService{
		Config:        cfg,
		log:           log,
		stopCh:        make(chan struct{}),
		maxFileBytes:  int64(config.Int(cfg, "max_file_mb", 0)) * 1024 * 1024,
		retentionDays: config.Int(cfg, "retention_days", 0),
		folderPath:    folder,
		console:       config.Bool(cfg, "console", true),
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

// Logger exposes the underlying logrus logger.
func (l *LoggerService) Logger() *logrus.Logger {
	return l.log
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		return err
	}
	if err := l.openLocked(); err != nil {
		return err
	}
	l.log.WithField("file", l.currentLog).Info("[LoggerService] Started")

	// background goroutine for rotation and retention
	l.wg.Add(1)
	go l.backgroundWorker()

	return nil
}

func (l *LoggerService) Stop() error {
	close(l.stopCh)
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.log.Info("[LoggerService] Stopping")
		l.log.SetOutput(os.Stderr)
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *LoggerService) openLocked() error {
	name := l.nextLogFileName()
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.currentLog = name
	if l.console {
		l.log.SetOutput(io.MultiWriter(os.Stdout, file))
	} else {
		l.log.SetOutput(file)
	}
	return nil
}

func (l *LoggerService) nextLogFileName() string {
	timestamp := time.Now().Format("20060102_150405")
	name := filepath.Join(l.folderPath, fmt.Sprintf("app_%s.log", timestamp))
	for i := 1; fileExists(name); i++ {
		name = filepath.Join(l.folderPath, fmt.Sprintf("app_%s_%d.log", timestamp, i))
	}
	return name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *LoggerService) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxFileBytes {
		return nil
	}
	old := l.file
	if err := l.openLocked(); err != nil {
		return err
	}
	old.Close()
	l.log.WithField("file", l.currentLog).Info("[LoggerService] Rotated log file")
	return nil
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	retentionTicker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	defer retentionTicker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if err := l.rotateIfNeeded(); err != nil {
				l.log.WithError(err).Error("[LoggerService] rotation failed")
			}
		case <-retentionTicker.C:
			l.zipAndCleanOldLogs()
		}
	}
}

// zipAndCleanOldLogs moves .log files older than the retention period into a
// dated zip archive. It returns how many files were archived.
func (l *LoggerService) zipAndCleanOldLogs() int {
	if l.retentionDays <= 0 {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	files, err := os.ReadDir(l.folderPath)
	if err != nil {
		return 0
	}

	l.mu.Lock()
	current := l.currentLog
	l.mu.Unlock()

	var old []string
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".log" {
			continue
		}
		fullPath := filepath.Join(l.folderPath, f.Name())
		if fullPath == current {
			continue
		}
		info, err := f.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		old = append(old, f.Name())
	}
	if len(old) == 0 {
		return 0
	}

	zipName := filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", time.Now().Format("20060102_150405")))
	zipFile, err := os.Create(zipName)
	if err != nil {
		return 0
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	archived := 0
	for _, name := range old {
		fullPath := filepath.Join(l.folderPath, name)
		w, err := zipWriter.Create(name)
		if err != nil {
			continue
		}
		src, err := os.Open(fullPath)
		if err != nil {
			continue
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			continue
		}
		os.Remove(fullPath)
		archived++
	}
	return archived
}

func (l *LoggerService) LogAudit(msg string) {
	l.log.WithField("type", "audit").Info(strings.TrimSpace(msg))
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}

// Default returns the global service's logger, or logrus' standard logger
// before one is registered.
func Default() *logrus.Logger {
	if GlobalLogger != nil {
		return GlobalLogger.log
	}
	return logrus.StandardLogger()
}

// Audit writes an audit line through the global logger.
func Audit(msg string) {
	if GlobalLogger != nil {
		GlobalLogger.LogAudit(msg)
		return
	}
	Default().WithField("type", "audit").Info(msg)
}

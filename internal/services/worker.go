package services

import (
	"log"
	"sync"

	"prepmate/interview-gateway/internal/models"
	"prepmate/interview-gateway/internal/repositories"
)

// ArchiveWorker persists completed interview analyses off the request
// path. The handler enqueues and returns immediately; a failed archive
// write never affects the HTTP response.
type ArchiveWorker interface {
	Start()
	Stop()
	Enqueue(record *models.InterviewRecord)
}

type archiveWorker struct {
	repo        repositories.InterviewRepository
	jobQueue    chan *models.InterviewRecord
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewArchiveWorker(repo repositories.InterviewRepository, concurrency int) ArchiveWorker {
	return &archiveWorker{
		repo:        repo,
		jobQueue:    make(chan *models.InterviewRecord, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements ArchiveWorker.
func (w *archiveWorker) Start() {
	log.Printf("🚀 Starting archive worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(i + 1)
	}

	log.Println("✅ Archive worker started successfully")
}

// Stop implements ArchiveWorker. Drains in-flight writes before
// returning.
func (w *archiveWorker) Stop() {
	log.Println("🛑 Stopping archive worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Archive worker stopped")
}

// Enqueue implements ArchiveWorker. Drops the record when the queue is
// full or the worker is stopping; archiving is best-effort.
func (w *archiveWorker) Enqueue(record *models.InterviewRecord) {
	select {
	case w.jobQueue <- record:
	case <-w.stopChan:
		log.Printf("⚠️  Archive worker stopped, dropping record for session %s\n", record.SessionID)
	default:
		log.Printf("⚠️  Archive queue full, dropping record for session %s\n", record.SessionID)
	}
}

func (w *archiveWorker) processJobs(workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Archive worker #%d stopped\n", workerID)
			return
		case record := <-w.jobQueue:
			if err := w.repo.Create(record); err != nil {
				log.Printf("❌ Archive worker #%d failed to persist session %s: %v\n", workerID, record.SessionID, err)
			} else {
				log.Printf("💾 Archive worker #%d persisted session %s\n", workerID, record.SessionID)
			}
		}
	}
}

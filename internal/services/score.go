package services

import (
	"log"
	"sync"
	"time"
	"toolrank/internal/db"
	"toolrank/internal/models"
	"toolrank/internal/utils"
)

// RecomputeScore rescans the vote ledger for a tool and refreshes the
// cached score/vote_count columns, returning the fresh values. The
// cached columns are a materialized view of the ledger, never a source
// of truth.
//
// This is O(votes for the tool) on every call; fine at current volume,
// and the first thing to replace with incremental deltas if a single
// tool's ledger grows large.
func RecomputeScore(toolID uint) (score int, voteCount int, err error) {
	var upvotes, downvotes, recentUpvotes int64

	if err = db.DB.Model(&models.Vote{}).
		Where("tool_id = ? AND value = 1", toolID).
		Count(&upvotes).Error; err != nil {
		return 0, 0, err
	}
	if err = db.DB.Model(&models.Vote{}).
		Where("tool_id = ? AND value = -1", toolID).
		Count(&downvotes).Error; err != nil {
		return 0, 0, err
	}

	since := time.Now().AddDate(0, 0, -utils.TrendingWindowDays)
	if err = db.DB.Model(&models.Vote{}).
		Where("tool_id = ? AND value = 1 AND created_at >= ?", toolID, since).
		Count(&recentUpvotes).Error; err != nil {
		return 0, 0, err
	}

	score = utils.ComputeScore(int(upvotes), int(downvotes), int(recentUpvotes))
	voteCount = utils.ComputeVoteCount(int(upvotes), int(downvotes))

	err = db.DB.Model(&models.Tool{}).Where("id = ?", toolID).Updates(map[string]interface{}{
		"score":      score,
		"vote_count": voteCount,
	}).Error
	return score, voteCount, err
}

// ScoreService refreshes tool scores asynchronously for paths that don't
// need the fresh value in the response (admin actions, the daily
// re-rank). The vote path recomputes synchronously instead.
type ScoreService struct {
	queue   chan uint
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	scoreService *ScoreService
	once         sync.Once
)

// GetScoreService returns the singleton refresh service.
func GetScoreService() *ScoreService {
	once.Do(func() {
		scoreService = &ScoreService{
			queue:   make(chan uint, 1000),
			pending: make(map[uint]bool),
		}
		go scoreService.worker()
	})
	return scoreService
}

// ScheduleUpdate queues a tool for refresh, deduplicating tools already
// waiting.
func (s *ScoreService) ScheduleUpdate(toolID uint) {
	s.mu.Lock()
	if s.pending[toolID] {
		s.mu.Unlock()
		return
	}
	s.pending[toolID] = true
	s.mu.Unlock()

	select {
	case s.queue <- toolID:
	default:
		s.mu.Lock()
		delete(s.pending, toolID)
		s.mu.Unlock()
		log.Printf("score refresh queue full, skipping tool %d", toolID)
	}
}

func (s *ScoreService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case toolID := <-s.queue:
			batch = append(batch, toolID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *ScoreService) processBatch(toolIDs []uint) {
	for _, toolID := range toolIDs {
		if _, _, err := RecomputeScore(toolID); err != nil {
			log.Printf("score refresh for tool %d failed: %v", toolID, err)
		}

		s.mu.Lock()
		delete(s.pending, toolID)
		s.mu.Unlock()
	}
}

// StartScheduledRefresh re-ranks active tools every night at 03:00. The
// trending bonus decays with time, so scores drift even without new
// votes.
func (s *ScoreService) StartScheduledRefresh() {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("starting scheduled score refresh...")
			s.refreshActiveTools()
			log.Println("scheduled score refresh done")
		}
	}()
}

// refreshActiveTools covers tools with votes in the trending window plus
// the current top 30, deduplicated.
func (s *ScoreService) refreshActiveTools() {
	processed := make(map[uint]bool)
	count := 0

	since := time.Now().AddDate(0, 0, -utils.TrendingWindowDays)
	var recent []models.Vote
	db.DB.Where("created_at >= ?", since).Distinct("tool_id").Find(&recent)
	for _, v := range recent {
		if _, _, err := RecomputeScore(v.ToolID); err == nil {
			processed[v.ToolID] = true
			count++
		}
	}

	var topTools []models.Tool
	db.DB.Where("status = ?", models.ToolStatusApproved).
		Order("score DESC").Limit(30).Select("id").Find(&topTools)
	for _, tool := range topTools {
		if !processed[tool.ID] {
			if _, _, err := RecomputeScore(tool.ID); err == nil {
				count++
			}
		}
	}

	log.Printf("refreshed scores for %d tools", count)
}

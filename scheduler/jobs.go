package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
	"macro_dashboard_backend/services"
	"macro_dashboard_backend/store"
)

const (
	stocksInterval      = 30 * time.Second
	marketInterval      = 5 * time.Minute
	economyCron         = "0 0,12 * * *"
	historyStartupDelay = 10 * time.Second
	startupPacing       = 2 * time.Second
	jobTimeout          = 60 * time.Second
)

// Scheduler owns the gocron instance and the refresh timer state exposed on
// /api/timer.
type Scheduler struct {
	cron    *gocron.Scheduler
	store   *store.Store
	finance *services.FinanceService
	stream  *services.StreamService

	mu         sync.RWMutex
	lastUpdate time.Time
	nextUpdate time.Time
}

func NewScheduler(st *store.Store, finance *services.FinanceService, stream *services.StreamService, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    gocron.NewScheduler(loc),
		store:   st,
		finance: finance,
		stream:  stream,
	}
}

// Start warms the cache with one paced sequential pass over the non-history
// jobs, then registers the recurring schedule. History is excluded from the
// burst; its first run comes shortly after via its own delayed job.
func (s *Scheduler) Start() {
	log.Info().Msg("scheduler starting")

	for _, job := range []struct {
		name string
		run  func()
	}{
		{"stocks", s.refreshStocks},
		{"rates", s.refreshRates},
		{"exchange", s.refreshExchange},
		{"economy", s.refreshEconomy},
	} {
		s.safe(job.name, job.run)
		time.Sleep(startupPacing)
	}

	s.cron.Every(stocksInterval).SingletonMode().Do(func() {
		s.safe("stocks", s.refreshStocks)
	})
	s.cron.Every(marketInterval).SingletonMode().Do(func() {
		s.safe("rates", s.refreshRates)
	})
	s.cron.Every(marketInterval).SingletonMode().Do(func() {
		s.safe("exchange", s.refreshExchange)
	})
	s.cron.Cron(economyCron).SingletonMode().Do(func() {
		s.safe("economy", s.refreshEconomy)
	})
	s.cron.Every(1).Day().StartAt(time.Now().Add(historyStartupDelay)).SingletonMode().Do(func() {
		s.safe("history", s.refreshHistory)
	})

	s.cron.StartAsync()
	log.Info().Msg("scheduler started")
}

// Stop halts the schedule. In-flight jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// Timer returns when the stocks cache was last refreshed and when the next
// refresh is due. Zero values mean no cycle has completed yet.
func (s *Scheduler) Timer() (last, next time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate, s.nextUpdate
}

// safe runs one job cycle with panic recovery and run metrics. A panicking
// cycle is recorded as an error and the schedule keeps going.
func (s *Scheduler) safe(name string, run func()) {
	start := time.Now()
	status := metrics.StatusOK
	defer func() {
		if r := recover(); r != nil {
			status = metrics.StatusError
			log.Error().Str("job", name).Interface("panic", r).Msg("job panicked")
		}
		metrics.RecordJobRun(name, status, time.Since(start))
	}()

	log.Debug().Str("job", name).Msg("job run")
	run()
}

func (s *Scheduler) refreshStocks() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	prev := s.store.Read(models.CategoryStocks)
	result := s.finance.StocksData(ctx, prev)
	s.store.Merge(models.CategoryStocks, result)

	now := time.Now()
	s.mu.Lock()
	s.lastUpdate = now
	s.nextUpdate = now.Add(stocksInterval)
	s.mu.Unlock()

	s.publish(models.CategoryStocks)
}

func (s *Scheduler) refreshRates() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	prev := s.store.Read(models.CategoryRates)
	s.store.Merge(models.CategoryRates, s.finance.RatesData(ctx, prev))
	s.publish(models.CategoryRates)
}

func (s *Scheduler) refreshExchange() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	prev := s.store.Read(models.CategoryExchange)
	s.store.Merge(models.CategoryExchange, s.finance.ExchangeData(ctx, prev))
	s.publish(models.CategoryExchange)
}

func (s *Scheduler) refreshEconomy() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	prev := s.store.Read(models.CategoryEconomy)
	s.store.Merge(models.CategoryEconomy, s.finance.EconomyData(ctx, prev))
	s.publish(models.CategoryEconomy)
}

func (s *Scheduler) refreshHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*jobTimeout)
	defer cancel()

	result := s.finance.HistoryData(ctx)
	if !s.store.ReplaceHistory(result) {
		log.Warn().Msg("history refresh yielded no series, keeping previous data")
		return
	}
	log.Info().Int("series", len(result)).Msg("history refreshed")
	if s.stream != nil {
		s.stream.Broadcast(models.CategoryHistory, s.store.ReadHistory())
	}
}

func (s *Scheduler) publish(category models.Category) {
	metrics.SetCacheKeys(string(category), s.store.Len(category))
	if s.stream != nil {
		s.stream.Broadcast(category, s.store.Read(category))
	}
}

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"parking-marketplace-backend/config"
	"parking-marketplace-backend/internal/store"
)

// Service polls the upstream document store for space and booking documents
// and hands them to the store layer for normalization and persistence. The
// recommendation engine itself never talks to the upstream API.
type Service struct {
	cfg    *config.Config
	store  store.Store
	client *http.Client
}

// NewService creates and initializes a new feed service.
func NewService(cfg *config.Config, s store.Store) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.Feed.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.Feed.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Feed will not use a proxy.", cfg.Feed.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Service{
		cfg:   cfg,
		store: s,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// Run starts the polling loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Feed.Enabled {
		log.Println("Feed is disabled. Not starting.")
		return
	}
	log.Println("Starting feed service...")

	s.SyncOnce(ctx)

	timer := time.NewTimer(s.cfg.Feed.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Feed service shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.cfg.Feed.Interval)
		}
	}
}

// SyncOnce performs a single round of document ingestion. Space and booking
// pulls are independent; a failure in one does not block the other.
func (s *Service) SyncOnce(ctx context.Context) {
	log.Println("Executing feed sync cycle...")

	if s.cfg.Feed.Request.SpacesURL != "" {
		if err := s.syncSpaces(ctx); err != nil {
			log.Printf("Error syncing spaces: %v", err)
		}
	}
	if s.cfg.Feed.Request.BookingsURL != "" {
		if err := s.syncBookings(ctx); err != nil {
			log.Printf("Error syncing bookings: %v", err)
		}
	}

	log.Println("Feed sync cycle finished.")
}

func (s *Service) syncSpaces(ctx context.Context) error {
	var all []store.SpaceDoc
	pageSize := s.cfg.Feed.Request.PageSize
	total := 1
	for page := 1; (page-1)*pageSize < total; page++ {
		var resp spacesResponse
		if err := s.fetchPage(ctx, s.cfg.Feed.Request.SpacesURL, page, &resp); err != nil {
			// Abort on a partial pull rather than upserting a torn snapshot.
			return fmt.Errorf("fetch spaces page %d: %w", page, err)
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		all = append(all, resp.Data.Items...)
	}
	if len(all) == 0 {
		return nil
	}

	written, err := s.store.UpsertSpaces(ctx, all)
	if err != nil {
		return err
	}
	log.Printf("Feed: upserted %d/%d spaces", written, len(all))
	return nil
}

func (s *Service) syncBookings(ctx context.Context) error {
	var all []store.BookingDoc
	pageSize := s.cfg.Feed.Request.PageSize
	total := 1
	for page := 1; (page-1)*pageSize < total; page++ {
		var resp bookingsResponse
		if err := s.fetchPage(ctx, s.cfg.Feed.Request.BookingsURL, page, &resp); err != nil {
			return fmt.Errorf("fetch bookings page %d: %w", page, err)
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		all = append(all, resp.Data.Items...)
	}
	if len(all) == 0 {
		return nil
	}

	written, err := s.store.RecordBookings(ctx, all)
	if err != nil {
		return err
	}
	log.Printf("Feed: recorded %d/%d bookings", written, len(all))
	return nil
}

// fetchPage fetches a single page of documents from the given endpoint.
func (s *Service) fetchPage(ctx context.Context, endpoint string, page int, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid feed URL %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(s.cfg.Feed.Request.PageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range s.cfg.Feed.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

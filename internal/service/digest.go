package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/logger"
)

// DigestScheduler posts a periodic summary of newly saved links
type DigestScheduler struct {
	linkRepo    repo.LinkRepo
	sendText    SendFunc
	linksChatID string
	spec        string
	cron        *cron.Cron
	log         logger.Logger
}

// NewDigestScheduler creates a digest scheduler for the given cron spec.
// An empty spec disables the digest.
func NewDigestScheduler(linkRepo repo.LinkRepo, sendText SendFunc, linksChatID, spec string, log logger.Logger) *DigestScheduler {
	return &DigestScheduler{
		linkRepo:    linkRepo,
		sendText:    sendText,
		linksChatID: linksChatID,
		spec:        spec,
		log:         log,
	}
}

// Start schedules the digest job
func (d *DigestScheduler) Start() error {
	if d.spec == "" {
		return nil
	}
	d.cron = cron.New()
	if _, err := d.cron.AddFunc(d.spec, d.run); err != nil {
		return fmt.Errorf("schedule digest %q: %w", d.spec, err)
	}
	d.cron.Start()
	d.log.Info("digest scheduled", logger.String("spec", d.spec))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (d *DigestScheduler) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}

func (d *DigestScheduler) run() {
	day := 1
	links, err := d.linkRepo.GetRecentLinks(context.Background(), &day, nil)
	if err != nil {
		d.log.Error("digest lookup failed", logger.Error(err))
		return
	}
	if len(links) == 0 {
		return
	}

	if _, err := d.sendText(d.linksChatID, formatDigest(links)); err != nil {
		d.log.Error("digest send failed", logger.Error(err))
	}
}

// formatDigest renders the links saved over the last day
func formatDigest(links []*domain.Link) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Daily digest** (%d new links):\n", len(links)))
	for _, link := range links {
		sb.WriteString(fmt.Sprintf("- [%d] <%s> (%s)\n", link.ID, link.URL, link.Category))
		if link.Summary != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", domain.Truncate(link.Summary, 150)))
		}
	}
	return domain.Truncate(strings.TrimSuffix(sb.String(), "\n"), replyLimit)
}

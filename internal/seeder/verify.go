package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/skillbench/skillbench/pkg/logger"
)

// experienceLevels are the bands the verification sweep queries.
var experienceLevels = []string{"entry", "junior", "mid", "senior", "principal"}

// verifyCohorts sweeps /cohorts/stats over every seeded skill and level
// band and counts which cohorts became queryable. Cohorts below the
// k-anonymity floor are expected to refuse; they are tallied, not failed.
func verifyCohorts(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "verifying cohort availability")

	client := newHTTPClient(config.Timeout)

	for _, skill := range skillPool {
		for _, level := range experienceLevels {
			q := url.Values{}
			q.Set("skill", skill)
			q.Set("level", level)

			resp, err := client.get(ctx, config.BaseURL+"/cohorts/stats?"+q.Encode())
			if err != nil {
				return fmt.Errorf("query cohort %s/%s: %w", skill, level, err)
			}

			body, err := readBody(resp)
			if err != nil {
				return fmt.Errorf("read cohort response %s/%s: %w", skill, level, err)
			}

			switch resp.StatusCode {
			case statusOK:
				var gs GroupStatsResponse
				if err := json.Unmarshal(body, &gs); err != nil {
					return fmt.Errorf("decode cohort stats %s/%s: %w", skill, level, err)
				}
				stats.CohortsVerified++
				if config.Verbose {
					logger.Get().Info(ctx, "cohort available",
						logger.String("skill", skill),
						logger.String("level", level),
						logger.Int("members", gs.GroupSize))
				}
			default:
				stats.CohortsBelowMinimum++
			}
		}
	}

	logger.Get().Info(ctx, "cohort verification completed",
		logger.Int("available", stats.CohortsVerified),
		logger.Int("belowMinimum", stats.CohortsBelowMinimum))
	return nil
}

// verifySampleUser exercises the comparison endpoints for one seeded user
// to confirm the read path works end to end.
func verifySampleUser(ctx context.Context, config *Config, obs Observation) error {
	client := newHTTPClient(config.Timeout)
	base := config.BaseURL + "/users/" + url.PathEscape(obs.UserID)

	endpoints := []string{
		base + "/industry-comparison?skill=" + url.QueryEscape(obs.SkillID),
		base + "/peer-comparison?skill=" + url.QueryEscape(obs.SkillID),
		base + "/readiness",
	}

	for _, endpoint := range endpoints {
		resp, err := client.get(ctx, endpoint)
		if err != nil {
			return fmt.Errorf("query %s: %w", endpoint, err)
		}
		body, err := readBody(resp)
		if err != nil {
			return fmt.Errorf("read %s: %w", endpoint, err)
		}

		// Peer comparison may refuse while the cohort is under the
		// k-anonymity floor; anything else is a hard failure.
		if resp.StatusCode != statusOK && resp.StatusCode != 422 {
			return fmt.Errorf("endpoint %s returned %d: %s", endpoint, resp.StatusCode, string(body))
		}

		if config.Verbose {
			logger.Get().Info(ctx, "sample user endpoint ok",
				logger.String("endpoint", endpoint),
				logger.Int("status", resp.StatusCode))
		}
	}

	logger.Get().Info(ctx, "sample user verification completed",
		logger.String("userID", obs.UserID),
		logger.String("skill", obs.SkillID))
	return nil
}

package batch

import (
	"math"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func computePRStats(entries []models.BatchTriageEntry, clusters []models.DuplicateCluster) models.BatchStats {
	stats := models.BatchStats{
		TotalPRs:          len(entries),
		DuplicateClusters: len(clusters),
	}
	for _, c := range clusters {
		stats.DuplicatePRs += len(c.Members)
	}

	var qualitySum float64
	for _, e := range entries {
		qualitySum += e.QualityScore

		switch e.VisionAlignment {
		case models.AlignmentFits:
			stats.VisionFits++
		case models.AlignmentStrays:
			stats.VisionStrays++
		case models.AlignmentRejects:
			stats.VisionRejects++
		case models.AlignmentPending:
			stats.VisionPending++
		case models.AlignmentError:
			stats.VisionErrors++
		}

		switch e.RecommendedAction {
		case models.ActionMergeCandidate:
			stats.MergeCandidate++
		case models.ActionNeedsRevision:
			stats.NeedsRevision++
		case models.ActionFlag:
			stats.Flagged++
		}
	}

	if len(entries) > 0 {
		stats.AvgQuality = math.Round(qualitySum/float64(len(entries))*10) / 10
	}
	return stats
}

func computeIssueStats(entries []models.BatchIssueTriageEntry, clusters []models.DuplicateCluster) models.IssueBatchStats {
	stats := models.IssueBatchStats{
		TotalIssues:       len(entries),
		DuplicateClusters: len(clusters),
	}
	for _, c := range clusters {
		stats.DuplicateIssues += len(c.Members)
	}

	var qualitySum float64
	for _, e := range entries {
		qualitySum += e.QualityScore

		switch e.VisionAlignment {
		case models.AlignmentFits:
			stats.VisionFits++
		case models.AlignmentStrays:
			stats.VisionStrays++
		case models.AlignmentRejects:
			stats.VisionRejects++
		case models.AlignmentPending:
			stats.VisionPending++
		case models.AlignmentError:
			stats.VisionErrors++
		}

		switch e.RecommendedAction {
		case models.ActionPrioritize:
			stats.Prioritize++
		case models.ActionNeedsInfo:
			stats.NeedsInfo++
		case models.ActionFlag:
			stats.Flagged++
		}
	}

	if len(entries) > 0 {
		stats.AvgQuality = math.Round(qualitySum/float64(len(entries))*10) / 10
	}
	return stats
}

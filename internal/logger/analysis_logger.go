package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger emits structured events for the evaluation pipeline so runs
// can be reconstructed from logs.
type AnalysisLogger struct {
	logger *logrus.Logger
}

// NewAnalysisLogger creates a new analysis event logger
func NewAnalysisLogger(logger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{logger: logger}
}

// LogPlayerEvaluation records the outcome of one player's prop evaluation
func (l *AnalysisLogger) LogPlayerEvaluation(playerID, playerName, sport string, propsAccepted int, durationSeconds float64) {
	l.logger.WithFields(logrus.Fields{
		"component":      "evaluator",
		"player_id":      playerID,
		"player_name":    playerName,
		"sport":          sport,
		"props_accepted": propsAccepted,
		"duration_s":     durationSeconds,
	}).Info("Player evaluation complete")
}

// LogParlayRanking records the outcome of a parlay composition pass
func (l *AnalysisLogger) LogParlayRanking(playerID string, candidates int, bestEV, bestProbability float64) {
	fields := logrus.Fields{
		"component":  "composer",
		"player_id":  playerID,
		"candidates": candidates,
	}
	if candidates > 0 {
		fields["best_ev"] = bestEV
		fields["best_probability"] = bestProbability
	}
	l.logger.WithFields(fields).Info("Parlay ranking complete")
}

// LogPlayerFailure records a non-fatal per-player analysis failure
func (l *AnalysisLogger) LogPlayerFailure(playerID, sport string, err error) {
	l.logger.WithFields(logrus.Fields{
		"component": "analyzer",
		"player_id": playerID,
		"sport":     sport,
	}).WithError(err).Warn("Player analysis failed, continuing batch")
}

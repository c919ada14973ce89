// Package game runs the courtship game between suitors.
//
// Each round every suitor is dealt its own random pool of flowers and
// hands one bouquet to every other suitor. Every suitor then scores the
// bouquets it received with its own preference functions, and each giver
// learns the score, rank and tie count of its bouquet.
//
// # Basic Usage
//
//	lineup := []game.Seat{{Kind: suitor.KindQueue}, {Kind: suitor.KindPhased}}
//	suitors, err := game.BuildSuitors(lineup, days, seed, suitor.OrderInsertion, logger)
//	engine, err := game.NewEngine(game.Config{Days: days, Seed: seed, Logger: logger}, suitors)
//	result, err := engine.Play(ctx)
//
// # Deterministic Replay
//
// Pools are drawn from a generator derived from Config.Seed, and
// BuildSuitors derives every suitor's generator from the same seed, so a
// seed fully determines the game.
package game

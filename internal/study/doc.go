// Package study builds quizzes from term/definition cards, grades them, and
// drives flashcard review sessions.
//
// Everything in the package is synchronous and takes its randomness from a
// RandomSource, so a seeded source reproduces a quiz exactly:
//
//	b, err := study.NewBuilder(study.NewRandom(42), study.DefaultTuning())
//	if err != nil {
//	    return err
//	}
//	questions, err := b.Build(set.Cards, cfg)
package study

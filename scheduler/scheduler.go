package scheduler

// Package scheduler drives the periodic refresh cycle:
// - stocks every 30 seconds (singleton, skipped while a run is in flight)
// - rates and exchange every 5 minutes
// - economy at 00:00 and 12:00
// - history shortly after startup, then daily
//
// On startup the non-history jobs run once, sequentially and paced, so the
// cache is warm before the first scheduled tick. Job bodies are wrapped so a
// panic in one cycle never takes the process down.

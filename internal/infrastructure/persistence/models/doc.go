// Package models contains the GORM persistence models for the insurance
// reference schema. Table and column names follow the existing German schema
// (vertrag, deckungsart, deckungsbetrag, deckungspreis, kunde, deckung).
//
// The service never creates or alters these tables; the reference models are
// used by tests to build the schema on SQLite or a throwaway PostgreSQL.
package models

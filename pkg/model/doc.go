// Package model defines the GORM models for the InfraFlow schema.
//
// # Tables
//
//   - projects: infrastructure projects, the root of every other table
//   - documents: uploaded files and their extracted data
//   - financial_models: DCF, Monte Carlo and blended finance runs
//   - compliance_checks: one row per standard checked
//   - risk_assessments: scored risk factors and mitigation plans
//   - stakeholders: contacts, with email and phone encrypted at rest
//   - reports: generated investment memos and compliance reports
//   - audit_log: append-only change history
//
// Every table except audit_log soft-deletes through deleted_at, so default
// queries never return deleted rows. Enumerated columns are stored as their
// snake_case names and generated with enumer.
package model

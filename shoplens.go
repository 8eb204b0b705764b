// Package shoplens extracts structured product records (title, price,
// description, images, variants, delivery terms, weight, category) from
// JavaScript-rendered e-commerce pages across multiple site layouts.
//
// The hard problem is robust field extraction under contract uncertainty:
// target sites change markup over time, use inconsistent naming, and render
// content dynamically. The pipeline escalates through strategies (document
// indexing with scored field candidates, AI inference over page content,
// then visual heuristics), merging partial results until a usable record
// exists.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, gemini/, sqlite/) or their
// domain role (index/, score/, pipeline/).
package shoplens

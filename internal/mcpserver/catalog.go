package mcpserver

// SourceCatalog describes the configured case-law sources for LLM
// consumers, including what each one actually returns.
const SourceCatalog = `# Caselink Source Catalogue

Caselink aggregates South African case law from these sources, listed in
priority order (earlier sources win when two report the same judgment URL):

## Concourt
Constitutional Court collections repository (DSpace). Crawls the most
recent ~60 items of the judgment collection. Dates are full ISO dates
when the repository exposes them, otherwise a bare year.

## SCA
Supreme Court of Appeal judgment index on SAFLII. Index entries carry
only a year; Caselink records it as January 1 of that year so recency
ranking still applies.

## ZACC
Constitutional Court judgments on SAFLII. The latest three years of
judgments are crawled. Dates are bare years.

## Commercial
A commercial case-law provider reached through a JSON proxy. This is the
only query-driven source: the search query is forwarded and the provider
does its own matching. Returns citations when available. Disabled unless
a proxy URL is configured.

## Notes for tool use

- search_cases serves cached results when available ("fromCache": true);
  cached pages are matched by the cache's own text search, not by the
  live title filter.
- Dates may be partial (bare years). A null date means the source did
  not expose one; such cases sort after all dated cases.
- Results are deduplicated by URL across sources.
`

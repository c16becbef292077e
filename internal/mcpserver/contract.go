package mcpserver

// AncestorRecordContract describes the canonical genealogy record format
// that LLM consumers should follow when creating ancestor entries.
const AncestorRecordContract = `# Hearth Ancestor Record Contract

Every ancestor record supplied to Hearth MUST follow this structure.

## Structure

` + "```" + `json
{
  "id": "anc-optional-stable-id",
  "household_id": "REQUIRED - household the record belongs to",
  "display_name": "REQUIRED - short name shown in the tree",
  "full_name": "optional legal or historical name",
  "birth_date": "optional, ISO-8601 date (YYYY-MM-DD)",
  "role": "optional free-text role tag, e.g. grandfather",
  "father_id": "optional id of the father node",
  "mother_id": "optional id of the mother node",
  "spouse_id": "optional id of the spouse node",
  "bio": "optional biographical text",
  "group_scope": "optional sharing scope; defaults to the household id"
}
` + "```" + `

## Rules

1. **household_id and display_name are required.** Records missing either
   are skipped on import.
2. **Ids are stable.** Re-submitting a record with the same id updates the
   existing node instead of creating a duplicate. Omit the id to have one
   generated.
3. **Parent and spouse references** use node ids. References to unknown
   nodes are tolerated: the edge is pruned at graph assembly time, and
   becomes live once the referenced node appears.
4. **Dates** use ISO-8601 (YYYY-MM-DD). Partial dates (YYYY) are accepted
   for historical records.
5. **Role tags** are free text; recognised tags (father, mother, son,
   daughter, grandfather, grandmother, husband, wife...) also carry the
   gender used when wording relationship labels.
`

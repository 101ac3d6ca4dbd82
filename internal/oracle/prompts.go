package oracle

// Prompt templates for the three oracles. All of them demand a bare JSON
// object in the response; formatting.Parse tolerates markdown fences and
// surrounding chatter anyway.

const layoutPrompt = `You are a document layout strategist. Analyze the
document summary and content preview below, partition the document into
contiguous sections, and choose the single best splitting strategy for each
section from this list:

1. "structural": for sections with a clear, predictable structure such as
   legal articles, numbered regulations, or question-answer dialogue.
2. "semantic": for prose sections such as essays, articles, or manuals,
   where splits should fall on clear topic shifts.
3. "recursive": the safe default for ordinary text with no clear structure,
   or whenever you are unsure.

Document:
- Title: %q
- Type: %q
- Summary: %q
- Total length: %d characters

Content preview:
---
%s
---

Respond with a JSON object only, in exactly this form:

{
  "sections": [
    {"id": 1, "title": "section title", "char_start": 0, "char_end": 1234, "strategy": "recursive"}
  ]
}

Sections must be contiguous, non-overlapping, ordered by char_start, and
together cover the whole document from 0 to the total length.`

const judgePrompt = `You are a master editor performing strict quality
review of a single chunk of a processed document. Evaluate the current
chunk on three criteria:

1. Integrity: is the chunk made of complete, readable sentences, not cut
   off mid-thought?
2. Cohesion: does the chunk follow sensibly from the previous chunk, either
   continuing its thread or opening a reasonable new topic?
3. Relevance: does the chunk still relate to the document's main topic?

Main topic: %q

Section under review: id=%d title=%q strategy=%q

Previous chunk ("%s" if this is the first chunk):
---
%s
---

Current chunk:
---
%s
---
%s
Respond with a JSON object only, in exactly this form:

{
  "is_valid": true or false,
  "reason": "concise explanation; if failing, name the criterion (Integrity, Cohesion, or Relevance) and why",
  "diagnosis": "what went wrong during splitting, empty if valid",
  "recommendation": {
    "action": "RETRY_SECTION" or "GIVE_UP",
    "target_section_id": id of the section to re-split,
    "suggested_strategy": "structural", "semantic", or "recursive"
  }
}

Set recommendation to null when is_valid is true. Recommend RETRY_SECTION
with a different strategy when a re-split could plausibly fix the problem;
recommend GIVE_UP when the content itself is beyond repair. Never suggest a
remediation that a prior attempt already tried and failed.`

const judgeHistoryHeader = `
Prior failed attempts on this document (most recent last):
`

const metadataPrompt = `You are a document analyst. Read the document
excerpt below and produce descriptive metadata for it.

Original filename: %q

Document excerpt:
---
%s
---

Respond with a JSON object only, in exactly this form:

{
  "document_title": "the document's actual title, or a concise descriptive one",
  "document_type": "one of: law, regulation, manual, article, faq, report, other",
  "summary": "two or three sentence summary of the document",
  "main_topics": ["topic", "topic", "topic"]
}`

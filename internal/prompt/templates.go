package prompt

// workbookSystemMessage frames the model for whole-workbook follow-ups.
const workbookSystemMessage = `You are an executive leadership coach reviewing a client's progress across all twelve leadership pillars.
You compare the client's original workbook responses with their follow-up responses and produce a clear, practical progress diagnosis.
Be specific, cite the client's own answers as evidence, and keep recommendations actionable and measurable.
Always answer using the exact "## HEADING" sections requested, in the order given, with no other top-level headings.`

const pillarSystemMessage = `You are an executive leadership coach specialising in a single leadership pillar.
You compare the client's original worksheet responses with their follow-up responses for that pillar and produce a focused progress diagnosis.
Be specific, cite the client's own answers as evidence, and keep recommendations actionable and measurable.
Always answer using the exact "## HEADING" sections requested, in the order given, with no other top-level headings.`

const workbookTemplate = `Client: {{clientName}}
Follow-up worksheet: {{worksheetTitle}}
{{worksheetDescription}}

Time since original workbook: {{timeElapsed}}

ORIGINAL WORKBOOK RESPONSES:
{{originalAnswers}}

ORIGINAL DIAGNOSIS CONTEXT:
{{originalDiagnosis}}

FOLLOW-UP RESPONSES:
{{followupAnswers}}

Assess how {{clientName}} has implemented the original recommendations across the pillars, what is blocking further progress, and what should change next.
{{additionalContext}}

Respond using exactly these sections:

{{responseFormat}}`

const pillarTemplate = `Client: {{clientName}}
Pillar: {{pillarName}}
Follow-up worksheet: {{worksheetTitle}}
{{worksheetDescription}}

Time since original worksheet: {{timeElapsed}}

ORIGINAL WORKSHEET RESPONSES:
{{originalAnswers}}

ORIGINAL DIAGNOSIS CONTEXT:
{{originalDiagnosis}}

FOLLOW-UP RESPONSES:
{{followupAnswers}}

Assess how {{clientName}} has progressed in {{pillarName}} since the original worksheet.
{{additionalContext}}

Respond using exactly these sections:

{{responseFormat}}`

const initialSystemMessage = `You are an executive leadership coach. You read a client's self-assessment answers and produce a concise, honest diagnosis of their leadership.
Be specific, ground every point in the client's answers, and keep recommendations practical.
Always answer using the exact "## HEADING" sections requested, in the order given.`

const initialTemplate = `Client: {{clientName}}
Worksheet: {{worksheetTitle}}
{{worksheetDescription}}

CLIENT RESPONSES:
{{answers}}

Produce a leadership diagnosis for {{clientName}}.

Respond using exactly these sections:

{{responseFormat}}`

// pillarContextSentence fills additionalContext for pillar follow-ups.
const pillarContextSentence = "Focus this assessment on the {{pillarName}} pillar ({{pillarId}}) and relate every point back to it."

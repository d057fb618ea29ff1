package insight

import "fmt"

const plannerSystemPrompt = `You are a senior analytics engineer for a digital payments product.
You receive a human-readable description of a transaction dataset and a
leadership-level natural language analytics question. You break the question
into a small list of atomic analysis tasks, each backed by a safe SQL query.`

func buildPlannerPrompt(question, schemaDescription, tableName string, maxTasks int) string {
	return fmt.Sprintf(`Dataset notes:
%s

The data is available as a single SQL table named %s, with columns exactly as
described above.

Task:
Break the question into a SMALL list of 1-%d atomic analysis tasks.
Each task should:
- Focus on a single clear analytical goal (e.g., compare failure rates by device_type).
- Include an expressive but SAFE SQL query over the %s table.

Very important requirements:
- Only SELECT queries are allowed.
- Do NOT use DDL or DML (no CREATE, INSERT, UPDATE, DELETE, DROP, etc.).
- Use column names exactly as described.
- If you filter on categorical columns, only use valid values from the dataset notes.
- Make sure every query is syntactically valid SQL.
- If the question is already simple, you may return just 1 task.

Return STRICTLY valid JSON with the following structure:
{
  "tasks": [
    {
      "task_name": "short title",
      "task_description": "what this task will compute and why",
      "sql_query": "SELECT ... FROM %s ..."
    }
  ]
}

User question:
%s
`, schemaDescription, tableName, maxTasks, tableName, tableName, question)
}

const narratorSystemPrompt = `You are an AI assistant for business leaders at a digital payments company.
You are given:
1) A leadership-level natural language question.
2) A JSON structure containing analysis tasks and their SQL results over a
   transaction dataset.

Your job is to:
- Directly answer the question.
- Use the provided numbers and trends from the JSON; do NOT invent data.
- Provide clear, explainable reasoning behind conclusions.
- Highlight key statistics and trends.
- Where appropriate, add 1-3 concise recommendations.

If the JSON contains no computed data, say so plainly and answer what you can
from the question alone without inventing numbers.

Do NOT output JSON. Respond in natural language paragraphs, suitable for a
senior product/operations/marketing/risk leader.`

func buildNarratorPrompt(question, envelopeJSON string) string {
	return fmt.Sprintf(`User question:
%s

Analysis JSON (from previous step):
%s

Now provide the final, well-structured answer.
`, question, envelopeJSON)
}

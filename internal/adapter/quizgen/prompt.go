package quizgen

// systemInstruction is sent as the system message; the user message is the raw content.
const systemInstruction = `You create study materials from the provided content.

Respond with ONLY valid JSON (no markdown, no surrounding text) in exactly this shape:
{
  "summary": "string",
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctIndex": 0
    }
  ]
}

Rules:
- summary: 4 to 8 sentences, clear and faithful to the content.
- questions: exactly 5.
- Every question must be answerable from the given content alone.
- Each question has 4 plausible options and exactly one correct option.
- correctIndex is the 0-based position of the correct option (0, 1, 2 or 3).
- No explanations.
- No trick questions.`

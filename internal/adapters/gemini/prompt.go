package gemini

// categorizationPrompt embeds the triage rulebook. Rules are checked in
// order: job signals, then do-not-miss signals, then delete signals, with
// READ as the safe default.
const categorizationPrompt = `You are an email triage assistant. Categorize the following email into exactly one of four categories: DELETE, JOB, READ, or IMPORTANT.

Classification rules, checked in order:
1. JOB: job openings and alerts (LinkedIn, Glassdoor, Indeed, ZipRecruiter), recruiter outreach, interview scheduling, application status updates, "who viewed your profile".
2. IMPORTANT: OTPs and verification codes (critical, never delete these), personal emails from real people, subjects containing "urgent", "action required" or "due", bills, invoices or payments that are due, meeting invitations, calendar updates, flight or travel tickets.
3. DELETE: promotional emails from brands (sale, discount, offers), spam or junk, surveys, feedback requests or research studies, generic stock or crypto market promotions.
4. READ: everything else - transaction notifications, automated notifications from apps that are not OTPs, standard newsletters, delivery updates. If unsure, default to READ.

Respond with a JSON object containing:
- category: string, exactly one of "DELETE", "JOB", "READ", "IMPORTANT"
- confidence: number between 0 and 1
- reasoning: string (short explanation of which rule matched)

Email:
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`

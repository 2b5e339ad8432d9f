/*
Package relocate renames an exam file and moves it into a directory tree
derived from its classification attributes.

	+-------------+     +-------------+     +-------------+     +-------------+
	|  1. Prepare | --> | 2. Filename | --> | 3. Directory| --> |   4. Move   |
	|  (exists?)  |     | (type+time) |     |  (mkdir -p) |     | (rename/cp) |
	+-------------+     +-------------+     +-------------+     +-------------+

🎯 Purpose:
- Validate that the source is an existing regular file
- Synthesize `{file_type}_{YYYYmmddHHMMSS}{.ext}`
- Create `<source dir>/<year>/<specialization>/<exam part>`
- Move the file there, copying across devices when a rename cannot

⚡ Guarantees:
- Steps run in order and stop at the first failure, nothing is retried
- The directory is created before the move, so a failed mkdir never leaves
  the source relocated
- A failed move leaves the source where it was and no partial file at the
  destination
- An existing destination is never overwritten (ErrDestinationExists)
- A source without an extension produces a filename without one

🔍 Example:

	r := relocate.New()
	dst, err := r.Relocate(ctx, relocate.Request{
		SourcePath:     "/tmp/in/report.PDF",
		Specialization: "Systemintegration",
		ExamPart:       "AP1",
		FileType:       "Aufgabenblatt",
		Year:           "2025",
		Period:         "Sommer",
	}, nil)
	// dst == "/tmp/in/2025/Systemintegration/AP1/Aufgabenblatt_20250601120000.pdf"
*/
package relocate

package handler

import "github.com/gofiber/fiber/v2"

// UIPage serves the single-page transform UI: upload a template, enter a
// query, pick an output format, run the pipeline and download the result.
// The page polls the job list while a transform is in flight so the current
// pipeline stage is visible.
func UIPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(uiHTML)
	}
}

const uiHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Document Transformer</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #1c1c1c; }
    h1 { font-size: 1.4rem; }
    fieldset { border: 1px solid #ccc; border-radius: 6px; margin-bottom: 1rem; padding: 1rem; }
    legend { font-weight: 600; }
    textarea { width: 100%; min-height: 5rem; box-sizing: border-box; }
    select, button { padding: 0.4rem 0.8rem; }
    button { cursor: pointer; }
    button:disabled { cursor: wait; opacity: 0.6; }
    #status { margin: 1rem 0; padding: 0.6rem; border-radius: 6px; background: #f0f4ff; display: none; }
    #status.error { background: #ffecec; }
    #result { display: none; }
    #preview { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; margin-top: 1rem; max-height: 24rem; overflow: auto; }
  </style>
</head>
<body>
  <h1>Document Transformer</h1>
  <p>Upload a template (DOCX, PDF, TXT or MD), describe what the new document should be about, and download the transformed result.</p>

  <fieldset>
    <legend>1. Template</legend>
    <input type="file" id="file" accept=".docx,.pdf,.txt,.md" />
  </fieldset>

  <fieldset>
    <legend>2. Query</legend>
    <textarea id="query" placeholder="e.g. Turn this business plan template into a plan for a solar panel installation startup"></textarea>
  </fieldset>

  <fieldset>
    <legend>3. Output</legend>
    <select id="format">
      <option value="md">Markdown</option>
      <option value="docx">DOCX</option>
      <option value="pdf">PDF</option>
      <option value="txt">Plain text</option>
    </select>
    <button id="run">Transform</button>
  </fieldset>

  <div id="status"></div>

  <div id="result">
    <a id="download" href="#">Download result</a>
    <div id="preview"></div>
  </div>

  <script>
    const el = (id) => document.getElementById(id);
    let pollTimer = null;

    function setStatus(msg, isError) {
      const s = el('status');
      s.style.display = 'block';
      s.textContent = msg;
      s.className = isError ? 'error' : '';
    }

    async function pollStage(jobId) {
      try {
        const resp = await fetch('/jobs/' + jobId);
        if (!resp.ok) return;
        const job = await resp.json();
        if (job.status === 'running' && job.stage) {
          setStatus('Running: ' + job.stage.replaceAll('_', ' ') + '…');
        }
      } catch (_) { /* keep previous status */ }
    }

    el('run').addEventListener('click', async () => {
      const file = el('file').files[0];
      const query = el('query').value.trim();
      if (!file) { setStatus('Choose a template file first.', true); return; }
      if (!query) { setStatus('Enter a query first.', true); return; }

      el('run').disabled = true;
      el('result').style.display = 'none';
      setStatus('Uploading template…');

      try {
        const form = new FormData();
        form.append('file', file);
        const upResp = await fetch('/templates', { method: 'POST', body: form });
        const tmpl = await upResp.json();
        if (!upResp.ok) throw new Error(tmpl.error ? tmpl.error.message : 'upload failed');

        setStatus('Transforming…');
        const transformPromise = fetch('/transform', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({
            template_id: tmpl.id,
            query: query,
            output_format: el('format').value
          })
        });

        // The transform call blocks until the pipeline finishes; watch the
        // newest job row in parallel to show stage progress.
        pollTimer = setInterval(async () => {
          const resp = await fetch('/jobs?limit=1');
          if (!resp.ok) return;
          const list = await resp.json();
          if (list.data && list.data.length > 0) pollStage(list.data[0].id);
        }, 1500);

        const jobResp = await transformPromise;
        clearInterval(pollTimer);
        const job = await jobResp.json();
        if (!jobResp.ok) {
          throw new Error(job.error && job.error.message ? job.error.message : (job.error || 'transform failed'));
        }

        setStatus('Done. Used ' + (job.prompt_tokens + job.completion_tokens) + ' tokens.');
        el('download').href = '/jobs/' + job.id + '/download';
        el('result').style.display = 'block';

        const preview = await fetch('/jobs/' + job.id + '/preview');
        if (preview.ok) el('preview').innerHTML = await preview.text();
      } catch (err) {
        clearInterval(pollTimer);
        setStatus('Failed: ' + err.message, true);
      } finally {
        el('run').disabled = false;
      }
    });
  </script>
</body>
</html>
`

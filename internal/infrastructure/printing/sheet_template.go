package printing

// productionSheetTemplate renders a Sheet. Each page box has a fixed height
// so a page never spills onto a second sheet of paper.
const productionSheetTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  @page { size: {{.Page.CSSSize}}; margin: 0; }
  body { margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; color: #222; }
  .page { page-break-after: always; padding: {{mm .Page.PaddingMM}}; box-sizing: border-box; height: {{mm .Page.BoxHeightMM}}; overflow: hidden; }
  .page:last-child { page-break-after: auto; }
  img { max-width: 100%; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; padding-bottom: 10px; border-bottom: 2px solid #3d2c1e; }
  .header img { height: 60px; object-fit: contain; }
  .meta { border: 1px solid #3d2c1e; border-collapse: collapse; font-size: 10px; }
  .meta tr { border-bottom: 1px solid #3d2c1e; }
  .meta tr:last-child { border-bottom: none; }
  .meta th { padding: 3px 8px; background: #f5f0eb; font-weight: bold; text-align: left; border-right: 1px solid #3d2c1e; }
  .meta td { padding: 3px 8px; min-width: 90px; }
  .mono { font-family: monospace; }
  .images { display: flex; gap: 10px; padding: 6px 0; }
  .primary { width: 75%; }
  .primary-frame { border: 1px solid #ddd; border-radius: 4px; padding: 6px; background: white; display: flex; align-items: center; justify-content: center; box-sizing: border-box; }
  .primary-frame img { max-width: 100%; object-fit: contain; }
  .no-image { width: 100%; display: flex; align-items: center; justify-content: center; background: #f8f8f8; border: 1px solid #ddd; border-radius: 4px; color: #888; }
  .thumbs { display: flex; gap: 8px; margin-top: 8px; flex-wrap: wrap; }
  .thumbs img, .thumbs .more { object-fit: cover; border: 1px solid #ddd; border-radius: 4px; flex-shrink: 0; }
  .thumbs .more { display: flex; align-items: center; justify-content: center; font-size: 12px; color: #666; }
  .swatches { width: 25%; display: flex; flex-direction: column; gap: 6px; }
  .swatch { border: 1px solid #ddd; border-radius: 4px; padding: 6px; background: #fafafa; }
  .swatch .sample { width: 100%; object-fit: cover; border-radius: 4px; margin-bottom: 4px; display: block; }
  .swatch .label { font-size: 9px; color: #666; text-align: center; margin: 0; }
  .swatch .code { font-size: 10px; font-weight: 600; text-align: center; margin: 0; }
  .notes { border: 1px solid #3d2c1e; border-radius: 4px; margin-bottom: 6px; }
  .notes .title { background: #3d2c1e; color: white; padding: 6px 10px; font-weight: 600; font-size: 12px; }
  .notes .body { padding: 8px 10px; font-size: 15px; line-height: 1.4; }
  .notes .fallback { color: #888; }
  .notes .fallback p { margin: 2px 0; }
  .notes ul { margin: 0; padding-left: 20px; }
  .notes li { margin: 4px 0; }
  .notes p { margin: 4px 0; }
  .notes strong { font-weight: 700; }
  .details { width: 100%; border-collapse: collapse; font-size: 11px; border: 2px solid #3d2c1e; }
  .details thead tr:first-child { background: #3d2c1e; color: white; }
  .details thead tr.dims { background: #5a4a3a; color: white; font-size: 9px; }
  .details th { padding: 6px; border-right: 1px solid #5a4a3a; }
  .details td { padding: 6px; text-align: center; border-right: 1px solid #ddd; }
  .details td.left { text-align: left; }
  .details .muted { color: #666; }
  .footer { display: flex; justify-content: space-between; margin-top: 8px; padding-top: 6px; border-top: 1px solid #ddd; font-size: 9px; color: #888; }
</style>
</head>
<body>
{{- range .Pages}}
<div class="page">
  <div class="header">
    {{if $.Brand.LogoURL}}<img src="{{imageURL $.Brand.LogoURL}}" alt="{{$.Brand.Name}}">{{else}}<strong>{{$.Brand.Name}}</strong>{{end}}
    <table class="meta">
      <tr><th>ENTRY DATE</th><td>{{.Header.EntryDate}}</td></tr>
      <tr><th>INFORMED TO FACTORY</th><td>{{.Header.InformedDate}}</td></tr>
      <tr><th>FACTORY</th><td>{{.Header.Factory}}</td></tr>
      <tr><th>SALES ORDER REF</th><td class="mono">{{.Header.SalesOrderRef}}</td></tr>
      <tr><th>BUYER PO</th><td class="mono">{{.Header.BuyerPO}}</td></tr>
    </table>
  </div>

  <div class="images">
    <div class="primary">
      {{- if .PrimaryImage}}
      <div class="primary-frame" style="height: {{px .Layout.PrimaryHeight}}">
        <img src="{{imageURL .PrimaryImage}}" alt="Product" style="max-height: {{px (sub .Layout.PrimaryHeight 12)}}">
      </div>
      {{- else}}
      <div class="no-image" style="height: {{px .Layout.PrimaryHeight}}">No Image Available</div>
      {{- end}}
      {{- if .Thumbnails}}
      <div class="thumbs">
        {{- $size := .Layout.ThumbnailSize}}
        {{- range .Thumbnails}}
        <img src="{{imageURL .}}" alt="Additional" style="width: {{px $size}}; height: {{px $size}}">
        {{- end}}
        {{- if .Overflow}}
        <div class="more" style="width: {{px $size}}; height: {{px $size}}">+{{.Overflow}} more</div>
        {{- end}}
      </div>
      {{- end}}
    </div>

    <div class="swatches">
      {{- range .Swatches}}
      <div class="swatch">
        {{- if .ImageURL}}
        <img class="sample" src="{{imageURL .ImageURL}}" alt="{{.Label}}" style="height: {{px .Height}}">
        {{- else}}
        <div class="sample" style="height: {{px .Height}}; background: {{.Gradient}}"></div>
        {{- end}}
        <p class="label">{{upper .Label}}</p>
        <p class="code">{{.Code}}</p>
      </div>
      {{- end}}
    </div>
  </div>

  <div class="notes">
    <div class="title">Notes:</div>
    <div class="body">
      {{- if .Notes.HTML}}
      <div>{{.Notes.HTML}}</div>
      {{- else}}
      <div class="fallback">
        {{- range .Notes.Bullets}}
        <p>&bull; {{.Label}}: {{.Value}}</p>
        {{- end}}
        {{- if .Notes.Empty}}
        <p style="font-style: italic">No notes added</p>
        {{- end}}
      </div>
      {{- end}}
    </div>
  </div>

  <table class="details">
    <thead>
      <tr>
        <th rowspan="2" style="text-align: left">ITEM CODE</th>
        <th rowspan="2" style="text-align: left">DESCRIPTION</th>
        <th colspan="3">SIZE (cm)</th>
        <th rowspan="2">CBM</th>
        <th rowspan="2" style="border-right: none">Qty</th>
      </tr>
      <tr class="dims"><th>H</th><th>D</th><th>W</th></tr>
    </thead>
    <tbody>
      <tr>
        <td class="left mono"><strong>{{.Details.ProductCode}}</strong></td>
        <td class="left">{{.Details.Description}}{{if .Details.ColorNotes}} <span class="muted">({{.Details.ColorNotes}})</span>{{end}}</td>
        <td>{{.Details.Height}}</td>
        <td>{{.Details.Depth}}</td>
        <td>{{.Details.Width}}</td>
        <td class="mono">{{.Details.CBM}}</td>
        <td style="border-right: none"><strong>{{.Details.Quantity}} Pcs</strong></td>
      </tr>
    </tbody>
  </table>

  <div class="footer">
    <span>Buyer: {{.Footer.Buyer}} &bull; PO: {{.Footer.PO}}</span>
    <span>Page {{.Number}} of {{.Total}}</span>
  </div>
</div>
{{- end}}
{{- if .AutoPrint}}
<script>
  window.onload = function () {
    setTimeout(function () { window.print(); }, {{.PrintDelayMS}});
  };
</script>
{{- end}}
</body>
</html>
`

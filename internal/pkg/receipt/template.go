// internal/pkg/receipt/template.go
package receipt

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #333; margin: 40px; }
  .store { font-size: 24px; font-weight: bold; color: #DB0007; }
  .meta { margin: 20px 0; font-size: 12px; color: #666; }
  table { width: 100%; border-collapse: collapse; margin-top: 20px; }
  td { padding: 6px 0; font-size: 13px; }
  td.amount { text-align: right; }
  tr.total td { border-top: 1px dashed #999; font-size: 16px; font-weight: bold; padding-top: 12px; }
  .footer { margin-top: 40px; font-size: 11px; color: #999; text-align: center; }
</style>
</head>
<body>
  <div class="store">{{.StoreName}}</div>
  <div class="meta">
    Order ID: {{.OrderID}}<br>
    Metode: {{.Method}}<br>
    {{.IssuedAt}}
  </div>
  <table>
    {{range .Lines}}
    <tr>
      <td>{{.Name}}</td>
      <td class="amount">{{.LineTotal}}</td>
    </tr>
    {{end}}
    <tr class="total">
      <td>TOTAL</td>
      <td class="amount">{{.Total}}</td>
    </tr>
  </table>
  <div class="footer">Pembayaran berhasil. Terima kasih!</div>
</body>
</html>`

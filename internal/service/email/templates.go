package email

// Consultation summary template using HTML

const consultationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: linear-gradient(135deg, #059669, #047857);
            color: white;
            padding: 30px;
            text-align: center;
            border-radius: 10px 10px 0 0;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
        }
        .content {
            background: #ffffff;
            padding: 30px;
            border: 1px solid #e5e7eb;
            border-top: none;
        }
        .footer {
            background: #f9fafb;
            padding: 20px;
            text-align: center;
            font-size: 12px;
            color: #6b7280;
            border: 1px solid #e5e7eb;
            border-top: none;
            border-radius: 0 0 10px 10px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        td {
            padding: 8px 4px;
            border-bottom: 1px solid #e5e7eb;
            vertical-align: top;
        }
        td.label {
            font-weight: 600;
            width: 120px;
            color: #6b7280;
        }
        .advice {
            background: #f0fdf4;
            border-left: 4px solid #059669;
            padding: 15px;
            margin-top: 20px;
            white-space: pre-wrap;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>New Consultation Completed</h1>
    </div>
    <div class="content">
        <table>
            <tr><td class="label">Reference</td><td>{{.ID}}</td></tr>
            <tr><td class="label">Date</td><td>{{.CreatedAt}}</td></tr>
            <tr><td class="label">Name</td><td>{{.Name}}</td></tr>
            <tr><td class="label">Age</td><td>{{.Age}}</td></tr>
            <tr><td class="label">Phone</td><td>{{.Phone}}</td></tr>
            <tr><td class="label">Gender</td><td>{{.Gender}}</td></tr>
            <tr><td class="label">Language</td><td>{{.Language}}</td></tr>
            <tr><td class="label">Symptoms</td><td>{{.Symptoms}}</td></tr>
        </table>
        <div class="advice">{{.Advice}}</div>
    </div>
    <div class="footer">
        <p>Automated summary. The guidance above is general health information, not a medical diagnosis.</p>
    </div>
</body>
</html>
`

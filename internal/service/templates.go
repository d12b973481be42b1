package service

import "html/template"

var pageTemplates = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
  label { display: block; margin-top: .6rem; }
  input, select { width: 100%; padding: .35rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { border: 1px solid #ccc; padding: .3rem .5rem; text-align: left; }
  .error { color: #b00020; }
  .success { color: #1b5e20; }
  .warning { color: #8a6d00; }
  nav a { margin-right: 1rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<h2>Сохранение данных</h2>
{{range .Success}}<p class="success">{{.}}</p>{{end}}
{{if .Form.Error}}<p class="error">{{.Form.Error}}</p>{{end}}
<form method="post" action="/records">
  <label>Имя <input name="first_name" value="{{.Form.Values.FirstName}}"></label>
  <label>Фамилия <input name="last_name" value="{{.Form.Values.LastName}}"></label>
  <label>Дата рождения <input type="date" name="birth_date" min="1940-01-01" value="{{.Form.Values.BirthDate}}"></label>
  <label>Телефон <input name="phone_number" value="{{.Form.Values.PhoneNumber}}"></label>
  {{if .IsBranch}}
  <label>Город <input name="city" value="{{.Form.Values.City}}"></label>
  <label>Филиал
    <select name="filial">
      {{range .Branches}}<option value="{{.}}"{{if eq . $.Form.Values.Filial}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Откуда вы о нас узнали? <input name="selected_source" value="{{.Form.Values.SelectedSource}}"></label>
  {{else}}
  <label>Адрес <input name="address" value="{{.Form.Values.Address}}"></label>
  <label>Город <input name="city" value="{{.Form.Values.City}}"></label>
  {{end}}
  <p><button type="submit">Сохранить</button></p>
</form>

<h2>Просмотр данных</h2>
<table>
  <tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
  {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{end}}
</table>
<p>Страница {{.Page.CurrentPage}} из {{.Page.TotalPages}}</p>
<nav>
  {{if .Page.HasPrev}}<a href="/?page={{.Page.PrevPage}}">Предыдущая страница</a>{{end}}
  {{if .Page.HasNext}}<a href="/?page={{.Page.NextPage}}">Следующая страница</a>{{end}}
</nav>

{{if .Admin}}
<form method="post" action="/admin/export?page={{.Page.CurrentPage}}"><button type="submit">Скачать Excel файл</button></form>
{{if .ExportLink}}<p><a href="{{.ExportLink}}" download="data.xlsx">Скачать Excel файл</a></p>{{end}}
<p><a href="/admin/export.xlsx">data.xlsx</a></p>
<form method="post" action="/admin/delete-all"><button type="submit">Delete All Data</button></form>
<form method="post" action="/admin/logout"><button type="submit">Выйти</button></form>
{{else}}
<form method="post" action="/admin">
  <label>Enter Admin Password <input type="password" name="password" autocomplete="off"></label>
  <p><button type="submit">OK</button></p>
</form>
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
{{end}}
</body>
</html>
`))

func init() {
	template.Must(pageTemplates.New("error").Parse(`<!DOCTYPE html>
<html lang="ru">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p class="error">{{.Message}}</p>
<p><a href="/">Назад</a></p>
</body>
</html>
`))
}

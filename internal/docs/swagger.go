package docs

// @title Digital Reviver API
// @version 1.0
// @description Content backend for the Digital Reviver site. Serves blogs and services with preview drafts and a publish workflow, the popup contact form, and admin authentication.

// @contact.name Digital Reviver
// @contact.email hello@digitalreviver.com

// @BasePath /api
// @schemes https http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token with the `Bearer ` prefix, e.g. "Bearer abcde12345".

// @tag.name Content
// @tag.description Published blogs and services

// @tag.name Preview
// @tag.description Drafts and the publish workflow

// @tag.name Publications
// @tag.description Audit log of publish operations

// @tag.name Authentication
// @tag.description Admin accounts, login and password reset

// @tag.name Contact
// @tag.description Popup contact form submissions

// @tag.name Files
// @tag.description Image uploads

// @tag.name SMTP
// @tag.description Mail delivery checks

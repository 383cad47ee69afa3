package locale

import (
	"fmt"
	"strings"
)

// DefaultLanguage is used when a guild has no language configured or a key
// is missing from the configured language.
const DefaultLanguage = "de"

// SupportedLanguages maps language tags to their display names.
var SupportedLanguages = map[string]string{
	"de": "Deutsch",
	"en": "English",
}

// Params holds the placeholder values interpolated into a message.
type Params map[string]any

// T resolves a message by dotted key for the given language. Unknown
// languages and missing keys fall back to the default language; a key
// missing there too is returned verbatim so broken lookups stay visible.
func T(lang, key string, params Params) string {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs[DefaultLanguage]
	}
	text, ok := catalog[key]
	if !ok {
		text, ok = catalogs[DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	return interpolate(text, params)
}

func interpolate(text string, params Params) string {
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(value))
	}
	return text
}

var catalogs = map[string]map[string]string{
	"de": {
		"common.not_set":     "Nicht gesetzt",
		"common.assign_verb": "zuweisen",
		"common.remove_verb": "entfernen",

		"errors.role_modify":                "Fehler: Kann Rolle `{role}` nicht {action}.",
		"errors.send_absence_manager_failed": "❌ Fehler beim Senden der Nachricht in {channel}. Bitte prüfe die Berechtigungen.",
		"errors.internal":                   "❌ Interner Fehler. Bitte versuche es später erneut.",
		"errors.admin_only":                 "⚠️ Nur Administratoren können diesen Befehl verwenden.",
		"errors.guild_only":                 "⚠️ Dieser Befehl funktioniert nur auf einem Server.",

		"absence.set_ok":         "✅ **Abwesenheit eingetragen!**\nBis **{date}**.",
		"absence.end_ok":         "✅ **Abwesenheit beendet!**",
		"absence.invalid_date":   "⚠️ **Ungültiges Datum!**\nBitte verwende das Format `TT.MM.JJJJ`.",
		"absence.no_active":      "Keine aktive Abwesenheit.",
		"absence.no_active_hint": "ℹ️ **Keine aktive Abwesenheit**\nTrage zuerst ein Startdatum ein.",
		"absence.extend_ok":      "✅ **Abwesenheit verlängert!**\nNeues Rückkehrdatum: **{date}**.",

		"ui.manager_title": "📅 Abwesenheitsmanager",
		"ui.manager_desc": "### Verwalte deine Abwesenheit im Server\n\n" +
			"▫️ Abwesenheit für 2 oder 4 Wochen eintragen\n" +
			"▫️ Individuelle Rückkehrdaten festlegen\n" +
			"▫️ Automatische Benachrichtigungen erhalten\n" +
			"▫️ Deine Abwesenheit jederzeit beenden\n\n" +
			"**Du erhältst die Abwesenheitsrolle, solange du als abwesend markiert bist.**",
		"ui.manager_footer":         "Verwende die Buttons unten um deine Abwesenheit zu verwalten",
		"ui.btn_2w":                 "2 Wochen",
		"ui.btn_4w":                 "4 Wochen",
		"ui.btn_custom_date":        "Individuelles Datum",
		"ui.btn_end":                "Abwesenheit beenden",
		"ui.btn_extend_2w":          "+2 Wochen",
		"ui.btn_extend_4w":          "+4 Wochen",
		"ui.btn_extend_custom":      "Individuelles Datum",
		"ui.modal_set_title":        "Abwesenheit eintragen",
		"ui.modal_extend_title":     "Abwesenheit verlängern",
		"ui.input_return_label":     "Rückkehrdatum",
		"ui.input_return_new_label": "Neues Rückkehrdatum",
		"ui.input_date_placeholder": "TT.MM.JJJJ (z.B. 31.12.2024)",

		"admin.language_set":             "✅ **Sprache gesetzt!**\nBotsprache für diesen Server ist jetzt **{language}**.",
		"admin.language_set_no_channel":  "ℹ️ Hinweis: Es ist kein Abwesenheitskanal gesetzt, daher wurde kein Embed aktualisiert.",
		"admin.channel_already_set":      "⚠️ Der Kanal {channel} ist bereits als Abwesenheitskanal gesetzt.",
		"admin.channel_updated":          "✅ **Kanal aktualisiert!**\nDie Abwesenheitsnachricht wurde nach {channel} verschoben.",
		"admin.role_set":                 "✅ **Rolle gesetzt!**\nAbwesenheitsrolle wurde auf `{role}` aktualisiert.",
		"admin.logging_channel_set":      "✅ **Logging-Kanal gesetzt!**\nAlle Abwesenheitsereignisse werden jetzt in {channel} geloggt.",
		"admin.config_title":             "⚙️ Bot-Konfiguration",
		"admin.config_desc":              "**Aktuelle Einstellungen für diesen Server**",
		"admin.config_channel":           "Kanal für Nachrichten",
		"admin.config_role":              "Abwesenheitsrolle",
		"admin.config_logging":           "Logging-Kanal",
		"admin.config_footer":            "Verwende /set_channel, /set_role, /set_logging_channel und /set_language zum Ändern.",
		"admin.absent_users_none":        "✅ Es sind derzeit keine Benutzer als abwesend markiert.",
		"admin.absent_users_title":       "📋 Aktuell Abwesende Mitglieder",
		"admin.absent_users_desc":        "Hier ist eine Liste der derzeit abwesenden Mitglieder und deren Rückkehrdatum.",
		"admin.absent_users_entry":       "Rückkehrdatum: **{date}**",
		"admin.absent_users_invalid_date": "Ungültiges Datum gespeichert: `{date}`",

		"log.absence_set":                  "📋 {user} hat sich als abwesend eingetragen bis **{date}**.",
		"log.absence_ended":                "✅ {user} hat die Abwesenheit beendet.",
		"log.absence_extended_until":       "🕒 {user} hat seine Abwesenheit verlängert bis **{date}**.",
		"log.absence_extended_by_days":     "🕒 {user} hat seine Abwesenheit um {days} Tage verlängert bis **{date}**.",
		"log.entry_deleted_role_missing":   "🧹 In **{guild}**: {user} hat Rolle **{role}** nicht mehr – Eintrag gelöscht.",
		"log.entry_deleted_user_left":      "🧹 In **{guild}**: User `{username}` (ID: {user_id}) ist nicht mehr im Server – Eintrag gelöscht.",
		"log.entry_deleted_role_not_found": "🧹 In **{guild}**: Abwesenheitsrolle `{role_name}` existiert nicht – Eintrag für {user} gelöscht.",

		"dm.return_day_reached": "## ⏰ Rückkehrtag erreicht in **{guild}**\n" +
			"Deine Abwesenheit auf **{guild}** endet heute (am {date})!\n\n" +
			"Möchtest du sie verlängern?",
		"dm.absence_expired_role_removed": "## ✅ Abwesenheit beendet in **{guild}**\n" +
			"Deine Abwesenheit ist abgelaufen ({date}).\n" +
			"Rolle **{role}** wurde automatisch entfernt.",
		"dm.absence_entry_deleted_role_removed": "## ✅ Abwesenheit beendet in **{guild}**\n" +
			"Deine Abwesenheitsrolle **{role}** wurde entfernt.\n" +
			"Der Abwesenheits-Eintrag wurde daher automatisch gelöscht.",
	},
	"en": {
		"common.not_set":     "Not set",
		"common.assign_verb": "assign",
		"common.remove_verb": "remove",

		"errors.role_modify":                "Error: Cannot {action} role `{role}`.",
		"errors.send_absence_manager_failed": "❌ Failed to send the message in {channel}. Please check permissions.",
		"errors.internal":                   "❌ Internal error. Please try again later.",
		"errors.admin_only":                 "⚠️ Only administrators can use this command.",
		"errors.guild_only":                 "⚠️ This command only works on a server.",

		"absence.set_ok":         "✅ **Absence recorded!**\nUntil **{date}**.",
		"absence.end_ok":         "✅ **Absence ended!**",
		"absence.invalid_date":   "⚠️ **Invalid date!**\nPlease use the format `DD.MM.YYYY`.",
		"absence.no_active":      "No active absence.",
		"absence.no_active_hint": "ℹ️ **No active absence**\nPlease set an absence first.",
		"absence.extend_ok":      "✅ **Absence extended!**\nNew return date: **{date}**.",

		"ui.manager_title": "📅 Absence Manager",
		"ui.manager_desc": "### Manage your absence on this server\n\n" +
			"▫️ Set absence for 2 or 4 weeks\n" +
			"▫️ Set a custom return date\n" +
			"▫️ Receive automatic notifications\n" +
			"▫️ End your absence anytime\n\n" +
			"**You will keep the absence role while you are marked as absent.**",
		"ui.manager_footer":         "Use the buttons below to manage your absence",
		"ui.btn_2w":                 "2 weeks",
		"ui.btn_4w":                 "4 weeks",
		"ui.btn_custom_date":        "Custom date",
		"ui.btn_end":                "End absence",
		"ui.btn_extend_2w":          "+2 weeks",
		"ui.btn_extend_4w":          "+4 weeks",
		"ui.btn_extend_custom":      "Custom date",
		"ui.modal_set_title":        "Set absence",
		"ui.modal_extend_title":     "Extend absence",
		"ui.input_return_label":     "Return date",
		"ui.input_return_new_label": "New return date",
		"ui.input_date_placeholder": "DD.MM.YYYY (e.g. 31.12.2024)",

		"admin.language_set":             "✅ **Language set!**\nServer language is now **{language}**.",
		"admin.language_set_no_channel":  "ℹ️ Note: No absence channel is configured, so no embed was refreshed.",
		"admin.channel_already_set":      "⚠️ Channel {channel} is already configured as the absence channel.",
		"admin.channel_updated":          "✅ **Channel updated!**\nThe absence message was moved to {channel}.",
		"admin.role_set":                 "✅ **Role set!**\nAbsence role updated to `{role}`.",
		"admin.logging_channel_set":      "✅ **Logging channel set!**\nAll absence events will now be logged in {channel}.",
		"admin.config_title":             "⚙️ Bot Configuration",
		"admin.config_desc":              "**Current settings for this server**",
		"admin.config_channel":           "Channel for messages",
		"admin.config_role":              "Absence role",
		"admin.config_logging":           "Logging channel",
		"admin.config_footer":            "Use /set_channel, /set_role, /set_logging_channel and /set_language to change settings.",
		"admin.absent_users_none":        "✅ There are currently no users marked as absent.",
		"admin.absent_users_title":       "📋 Currently Absent Members",
		"admin.absent_users_desc":        "Here is a list of members currently marked as absent and their return date.",
		"admin.absent_users_entry":       "Return date: **{date}**",
		"admin.absent_users_invalid_date": "Invalid date stored: `{date}`",

		"log.absence_set":                  "📋 {user} recorded an absence until **{date}**.",
		"log.absence_ended":                "✅ {user} ended their absence.",
		"log.absence_extended_until":       "🕒 {user} extended their absence until **{date}**.",
		"log.absence_extended_by_days":     "🕒 {user} extended their absence by {days} days until **{date}**.",
		"log.entry_deleted_role_missing":   "🧹 In **{guild}**: {user} no longer has role **{role}** – entry deleted.",
		"log.entry_deleted_user_left":      "🧹 In **{guild}**: User `{username}` (ID: {user_id}) is no longer on the server – entry deleted.",
		"log.entry_deleted_role_not_found": "🧹 In **{guild}**: Absence role `{role_name}` does not exist – entry for {user} deleted.",

		"dm.return_day_reached": "## ⏰ Return day reached in **{guild}**\n" +
			"Your absence on **{guild}** ends today ({date}).\n\n" +
			"Would you like to extend it?",
		"dm.absence_expired_role_removed": "## ✅ Absence ended in **{guild}**\n" +
			"Your absence expired ({date}).\n" +
			"Role **{role}** was removed automatically.",
		"dm.absence_entry_deleted_role_removed": "## ✅ Absence ended in **{guild}**\n" +
			"Your absence role **{role}** was removed.\n" +
			"The absence entry was deleted automatically.",
	},
}

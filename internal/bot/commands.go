package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linksgen/linksbot/internal/service"
)

// adminOnly maps command name to the admin gate. The check runs at the top
// of dispatch, before argument validation, so a denied caller learns nothing
// about the command itself.
var adminOnly = map[string]bool{
	"create_table": true,
	"create_links": true,
	"analytics":    true,
	"add_admin":    true,
	"remove_admin": true,
}

const denialMessage = "⛔ У вас нет прав администратора"

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	b.handleMessage(update.Message)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}
	b.handleCommand(msg)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	// Права проверяются по базе на каждый вызов, без кэша
	if adminOnly[cmd] && !b.userService.IsAdmin(userID) {
		b.SendMessage(chatID, denialMessage)
		return
	}

	switch cmd {
	case "start":
		b.cmdStart(chatID, userID)
	case "help":
		b.cmdHelp(chatID)
	case "myID", "myid":
		b.cmdMyID(chatID, userID)
	case "create_table":
		b.cmdCreateTable(chatID)
	case "create_links":
		b.cmdCreateLinks(chatID, args)
	case "analytics":
		b.cmdAnalytics(chatID)
	case "add_admin":
		b.cmdAddAdmin(chatID, args)
	case "remove_admin":
		b.cmdRemoveAdmin(chatID, args)
	default:
		b.SendMessage(chatID, "Неизвестная команда. /help для списка команд")
	}
}

func (b *Bot) cmdStart(chatID, userID int64) {
	// Регистрация не должна ломать приветствие
	if _, created, err := b.userService.Register(userID); err != nil {
		log.Printf("Error registering user %d: %v", userID, err)
	} else if created {
		log.Printf("Registered user %d", userID)
	}

	b.SendMessage(chatID,
		"Привет, я бот для генерации коротких ссылок\n"+
			"Нажми /help, чтобы увидеть мои команды")
}

func (b *Bot) cmdHelp(chatID int64) {
	b.SendMessage(chatID,
		"/start - приветственное сообщение\n"+
			"/create_links <link> - создание коротких ссылок из ссылки link\n"+
			"/analytics - аналитика переходов по текущим ссылкам в таблице\n"+
			"/myID - получить ваш user ID\n"+
			"/add_admin <user_id> - добавление админа\n"+
			"/remove_admin <user_id> - удаление админа\n"+
			"/create_table - создать таблицу по макету")
}

func (b *Bot) cmdMyID(chatID, userID int64) {
	b.sendMarkdown(chatID, fmt.Sprintf("Ваш user ID: `%d`", userID))
}

func (b *Bot) cmdCreateTable(chatID int64) {
	if err := b.linkService.CreateTable(); err != nil {
		b.SendMessage(chatID, "Ошибка при создании таблицы: "+err.Error())
		return
	}
	b.SendMessage(chatID, "Таблица успешно создана и настроена!")
}

func (b *Bot) cmdCreateLinks(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Ошибка: Ссылка не была введена")
		return
	}
	link, err := singleArg(args)
	if err != nil {
		b.SendMessage(chatID,
			"Ошибка: неправильный ввод команды. Пример:\n"+
				"/create_links <link>")
		return
	}

	b.SendMessage(chatID, "...начинаю генерацию ссылок, подождите...")

	if _, err := b.linkService.GenerateLinks(link); err != nil {
		log.Printf("Error generating links: %v", err)
		b.SendMessage(chatID, "Ошибка при создании ссылок: "+err.Error())
		return
	}

	b.SendMessage(chatID,
		"Обработал команду создания ссылок\n"+
			"Ваша ссылка: "+link)
}

func (b *Bot) cmdAnalytics(chatID int64) {
	b.SendMessage(chatID, "---Начинаю считать переходы по ссылкам---")

	if _, err := b.linkService.CollectAnalytics(); err != nil {
		log.Printf("Error collecting analytics: %v", err)
		b.SendMessage(chatID, "Ошибка при подсчёте переходов: "+err.Error())
		return
	}

	b.SendMessage(chatID, "Обработал команду аналитики переходов")
}

func (b *Bot) cmdAddAdmin(chatID int64, args string) {
	targetID, ok := b.parseTargetID(chatID, args, "/add_admin <user_id>")
	if !ok {
		return
	}

	err := b.userService.PromoteAdmin(targetID)
	switch {
	case errors.Is(err, service.ErrNotRegistered):
		b.SendMessage(chatID, "Ошибка: пользователь никогда не запускал бота")
	case err != nil:
		log.Printf("Error promoting %d: %v", targetID, err)
		b.SendMessage(chatID, "Что-то пошло не так, попробуйте позже")
	default:
		b.SendMessage(chatID, fmt.Sprintf("Пользователь %d назначен администратором", targetID))
	}
}

func (b *Bot) cmdRemoveAdmin(chatID int64, args string) {
	targetID, ok := b.parseTargetID(chatID, args, "/remove_admin <user_id>")
	if !ok {
		return
	}

	err := b.userService.DemoteAdmin(targetID)
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		b.SendMessage(chatID, "Ошибка: пользователь не является администратором")
	case err != nil:
		log.Printf("Error demoting %d: %v", targetID, err)
		b.SendMessage(chatID, "Что-то пошло не так, попробуйте позже")
	default:
		b.SendMessage(chatID, fmt.Sprintf("Пользователь %d больше не администратор", targetID))
	}
}

// parseTargetID validates the single numeric argument of the admin commands.
func (b *Bot) parseTargetID(chatID int64, args, usage string) (int64, bool) {
	arg, err := singleArg(args)
	if err != nil {
		b.SendMessage(chatID,
			"Ошибка: неправильный ввод команды. Пример:\n"+usage)
		return 0, false
	}

	targetID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.SendMessage(chatID, "Ошибка: user ID должен быть числом")
		return 0, false
	}
	return targetID, true
}

// singleArg expects exactly one whitespace-separated token.
func singleArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "", fmt.Errorf("expected exactly one argument, got %d", len(fields))
	}
	return fields[0], nil
}

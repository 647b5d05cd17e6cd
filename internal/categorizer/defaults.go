package categorizer

import "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"

// Domain keys known at startup. Every domain ships a default taxonomy so the
// system works before any taxonomy file exists.
const (
	DomainIT                = "it"
	DomainFinance           = "finance"
	DomainLegal             = "legal"
	DomainHealthcare        = "healthcare"
	DomainPersonalGrowth    = "personal_growth"
	DomainCustomerSupport   = "customer_support"
	DomainProjectManagement = "project_management"
	DomainFallback          = "fallback"
)

// Domains returns all domain keys with built-in defaults, fallback included.
func Domains() []string {
	return []string{
		DomainIT,
		DomainFinance,
		DomainLegal,
		DomainHealthcare,
		DomainPersonalGrowth,
		DomainCustomerSupport,
		DomainProjectManagement,
		DomainFallback,
	}
}

// DefaultTaxonomy returns the built-in taxonomy for a domain. Unknown domains
// get the fallback taxonomy.
func DefaultTaxonomy(domainKey string) domain.Taxonomy {
	switch domainKey {
	case DomainIT:
		return domain.Taxonomy{
			"bug_report":             {Description: "Описание ошибки или сбоя в системе"},
			"api_specification":      {Description: "Описание интерфейса API или контракта взаимодействия"},
			"feature_request":        {Description: "Запрос на новую функциональность или изменение"},
			"requirement":            {Description: "Формализованные требования к системе или продукту"},
			"deployment_instruction": {Description: "Руководство по развертыванию приложения или сервиса"},
		}
	case DomainFinance:
		return domain.Taxonomy{
			"invoice":          {Description: "Счёт на оплату или товарная накладная"},
			"financial_report": {Description: "Отчёт о финансовых показателях"},
			"bank_statement":   {Description: "Выписка по банковскому счёту"},
			"tax_form":         {Description: "Налоговая декларация или форма учёта"},
			"payment_order":    {Description: "Платёжное поручение или документ о переводе средств"},
		}
	case DomainLegal:
		return domain.Taxonomy{
			"contract":           {Description: "Юридический договор или соглашение"},
			"court_decision":     {Description: "Решение суда или арбитража"},
			"legal_opinion":      {Description: "Юридическое заключение или мнение"},
			"complaint":          {Description: "Жалоба или исковое заявление"},
			"regulation":         {Description: "Нормативный акт или постановление"},
			"legal_consultation": {Description: "Запрос на юридическую консультацию"},
		}
	case DomainHealthcare:
		return domain.Taxonomy{
			"medical_record":    {Description: "Медицинская карта или история болезни"},
			"prescription":      {Description: "Рецепт на лекарства"},
			"diagnostic_report": {Description: "Результаты диагностики или анализа"},
			"treatment_plan":    {Description: "План лечения или реабилитации"},
			"patient_complaint": {Description: "Жалоба пациента на лечение или обслуживание"},
			"research_paper":    {Description: "Научная статья или исследование в медицине"},
		}
	case DomainPersonalGrowth:
		return domain.Taxonomy{
			"goal_setting":       {Description: "Постановка личных или профессиональных целей"},
			"self_reflection":    {Description: "Рефлексия или анализ личного опыта"},
			"learning_plan":      {Description: "План обучения или саморазвития"},
			"motivation":         {Description: "Мотивационные заметки или цитаты"},
			"habit_tracking":     {Description: "Отслеживание привычек или рутины"},
			"personal_challenge": {Description: "Личный вызов или испытание"},
		}
	case DomainCustomerSupport:
		return domain.Taxonomy{
			"technical_issue":  {Description: "Техническая проблема или ошибка"},
			"billing_question": {Description: "Вопрос по оплате или счету"},
			"feature_request":  {Description: "Запрос на новую функцию или улучшение"},
			"complaint":        {Description: "Жалоба на продукт или сервис"},
			"general_question": {Description: "Общий вопрос о продукте или услуге"},
			"account_issue":    {Description: "Проблема с аккаунтом или доступом"},
		}
	case DomainProjectManagement:
		return domain.Taxonomy{
			"project_plan":        {Description: "План проекта или дорожная карта"},
			"task_list":           {Description: "Список задач или чеклист"},
			"meeting_notes":       {Description: "Заметки или протокол встречи"},
			"risk_assessment":     {Description: "Оценка рисков или проблем"},
			"progress_report":     {Description: "Отчёт о прогрессе или статусе"},
			"resource_allocation": {Description: "Распределение ресурсов или бюджета"},
		}
	default:
		return domain.Taxonomy{
			"general_report": {Description: "Общий отчёт или сводка информации"},
			"instruction":    {Description: "Инструкция, порядок действий, руководство"},
			"note":           {Description: "Примечание, краткая информация или напоминание"},
			"communication":  {Description: "Письмо, сообщение, переписка"},
			"unknown":        {Description: "Неопознанный документ"},
		}
	}
}

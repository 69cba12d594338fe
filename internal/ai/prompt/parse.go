package prompt

import (
	"fmt"
	"time"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

const parseInstruction = `You convert a short natural-language note into a single todo item.
Return ONLY a JSON object that matches the response schema.

Reference time:
- Current local date and time: %s (%s).
- All dates you output are local wall-clock times in YYYY-MM-DDTHH:mm form with no timezone.
- Use the current year unless the note explicitly names another year.

Date rules (resolve relative to the current local date):
- "오늘" / "today": the current date.
- "내일" / "tomorrow": current date + 1 day.
- "모레" / "내일모레" / "the day after tomorrow": current date + 2 days.
- "이번 주 <weekday>" / "this <weekday>": that weekday in the current Monday-Sunday week; if it has already passed, the same weekday next week.
- "다음 주 <weekday>" / "next <weekday>": that weekday in the week after the current one.
- "<weekday>" alone: the nearest upcoming occurrence, today excluded.
- "<M>월 <D>일" / "<month> <day>": that date in the current year; if it is more than a month in the past, the next year.
- "주말" / "weekend": the coming Saturday.
- A date without a time gets 09:00. A time without a date refers to today, or tomorrow if that time has already passed today.
- No date and no time mentioned: due_at is null.

Time-of-day rules:
- "새벽" / "early morning": 06:00. "아침" / "morning": 09:00. "오전" without a number: 10:00.
- "점심" / "noon" / "lunch": 12:00. "오후" without a number: 14:00.
- "저녁" / "evening": 18:00. "밤" / "night": 21:00. "자정" / "midnight": 00:00 of the next day.
- "오후 N시" / "N pm": N+12 o'clock (12 pm stays 12:00). "오전 N시" / "N am": N o'clock.
- "N시 반" / "half past N": minute 30.
- "N시까지" / "by N": due at N o'clock.

Priority rules:
- high: "긴급", "급함", "급하게", "중요", "반드시", "꼭", "ASAP", "urgent", "important", "critical", or a deadline today.
- low: "나중에", "여유", "천천히", "언젠가", "시간 나면", "someday", "whenever", "low priority".
- Otherwise medium.

Category rules:
- work: 회의, 미팅, 보고서, 발표, 업무, 프로젝트, 출근, meeting, report, presentation, project.
- shopping: 구매, 사기, 장보기, 주문, 마트, buy, order, groceries.
- health: 운동, 병원, 약, 헬스, 요가, 진료, gym, workout, doctor, medicine.
- study: 공부, 과제, 시험, 강의, 숙제, 독서, study, exam, homework, lecture.
- personal: 약속, 생일, 가족, 친구, 청소, 빨래, birthday, family, friend, cleaning.
- finance: 송금, 납부, 결제, 세금, 은행, pay, bill, tax, bank.
- If none applies, category is null.

Title rules:
- Remove the date, time and priority words from the title; keep the action and its object.
- Write the title in the language of the note. Keep it between 2 and 100 characters.
- Put any remaining detail that does not belong in the title into description, otherwise null.

Note:
%s`

// BuildParse builds the prompt that turns sanitized text into a todo.
// now is the caller's local reference time.
func (b *Builder) BuildParse(text string, now time.Time) Spec {
	return Spec{
		Name:   SpecParseTodo,
		Prompt: fmt.Sprintf(parseInstruction,
			models.FormatLocalDateTime(now), now.Weekday(), text),
		Schema: ParsedTodoSchema,
	}
}

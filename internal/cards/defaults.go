package cards

func uniform(texts ...string) []Entry {
	entries := make([]Entry, 0, len(texts))
	for _, text := range texts {
		entries = append(entries, Entry{Text: text, Weight: 1})
	}
	return entries
}

func defaultPools() map[string][]Entry {
	return map[string][]Entry{
		Professions: uniform(
			"Админ по вп", "Слесарь", "Разнорабочий", "Адвокат", "Судья",
			"Прокурор", "Хирург", "Ортопед", "Стоматолог", "Гинеколог",
			"Фермер", "Физик ядерщик", "Экономист", "Инженер",
		),
		Biology: {
			{Text: "Мужчина", Weight: 70},
			{Text: "Женщина", Weight: 70},
			{Text: "Гермафродит", Weight: 5},
			{Text: "Разумная белая свинья", Weight: 1},
		},
		HealthBody: {
			{Text: "Обычный", Weight: 40},
			{Text: "Крупное телосложение", Weight: 20},
			{Text: "Тощий", Weight: 20},
			{Text: "Спортивное телосложение", Weight: 15},
			{Text: "Карлик", Weight: 8},
			{Text: "Уродливый", Weight: 8},
			{Text: "Гигантизм", Weight: 5},
			{Text: "Хвост кошки", Weight: 3},
			{Text: "Хвост свиньи", Weight: 3},
			{Text: "Пятачок", Weight: 3},
			{Text: "Рога", Weight: 3},
			{Text: "Три глаза", Weight: 1},
		},
		HealthDisease: {
			{Text: "Полностью здоров", Weight: 30},
			{Text: "Никогда не обследовался", Weight: 20},
			{Text: "Непереносимость лактозы", Weight: 15},
			{Text: "Плоскостопие", Weight: 10},
			{Text: "Хроническая усталость", Weight: 8},
			{Text: "Депрессия", Weight: 8},
			{Text: "Хроническая бессонница", Weight: 8},
			{Text: "Нет одного пальца", Weight: 5},
			{Text: "Алопеция", Weight: 5},
			{Text: "Аутизм", Weight: 3},
			{Text: "Алкоголизм", Weight: 3},
			{Text: "Три лишних пальца", Weight: 3},
			{Text: "Немой", Weight: 2},
			{Text: "Нет руки", Weight: 2},
			{Text: "Нет ноги", Weight: 2},
			{Text: "Шизофрения", Weight: 2},
			{Text: "Раздвоение личности", Weight: 2},
			{Text: "Парализован ниже пояса", Weight: 1},
			{Text: "Лимфома", Weight: 1},
			{Text: "Лейкемия", Weight: 1},
			{Text: "Болезнь Альцгеймера", Weight: 1},
		},
		Phobias: uniform(
			"Андрофобия - боязнь мужчин",
			"Арахнофобия - боязнь пауков",
		),
		Hobbies: uniform(
			"Квадробика", "Хоббихорсинг", "Пайка микросхем", "Рукоделие",
			"Вязание", "Стрельба из лука", "Плаванье", "Бокс", "Вольная борьба",
		),
		Facts: uniform(
			"Утверждает что был укушен зомби", "Телепат", "Читает мысли",
			"Гений", "Ушел после 6 класса", "Не умеет читать",
			"Хрюкает как свинья когда смеётся", "Моется раз в две недели",
			"Женоненавистник", "Мужененавистник", "Сидел в тюрьме",
		),
		Baggage: uniform(
			"Белая разумная свинья", "Мини электростанция", "Фильтр для воды",
			"Аптечка первой помощи", "Лекарства от вирусных заболеваний",
			"Противогазы", "Пистолет без патронов", "Бронежилет",
			"Чемодан набитый дошираком", "20 килограмм риса",
		),
		Scenarios: {
			{
				Text:   "Зомби-апокалипсис",
				Weight: 1,
				Detail: "Новый вирус превращает людей в безмозглых зомби. Правительство не смогло остановить заражение, и мир погрузился в хаос. Выберитесь из бункера и создайте вакцину, которая спасёт выживших.",
			},
			{
				Text:   "Нашествие разумных свиней",
				Weight: 1,
				Detail: "В ходе магического ритуала открылся портал, из которого хлынули разумные белые свиньи-людоеды. Они разбили армии и уничтожили почти всё население Земли. Вам удалось спрятаться в бункере. Выберитесь наружу, очистите Землю и постройте цивилизацию заново.",
			},
			{
				Text:   "Вирусная пандемия",
				Weight: 1,
				Detail: "Неосторожные эксперименты породили вирус, который превращает заражённых в живое воплощение их собственных мнений. Остановите распространение вируса и создайте лекарство.",
			},
		},
		Events: {
			{
				Text:   "Короткое замыкание",
				Weight: 1,
				Kind:   "помеха",
				Detail: "Провода вспыхнули рядом с системой очистки воздуха. Уже чувствуется запах гари. Нужно срочно что-то предпринять, иначе все задохнутся.",
			},
			{
				Text:   "Чумная крыса",
				Weight: 1,
				Kind:   "помеха",
				Detail: "На складе с зерном вы нашли дружелюбную серую крысу. Через три дня после контакта с ней у вас началась лихорадка и озноб.",
			},
			{
				Text:   "Блины",
				Weight: 1,
				Kind:   "припасы",
				Detail: "Кто-то оставил на кухне свежие блины. Они помогут растянуть запасы на год и немного поднять настроение.",
			},
			{
				Text:   "Боеприпасы",
				Weight: 1,
				Kind:   "припасы",
				Detail: "Пистолет и патроны лежат в коробке из-под обуви. В крайнем случае это поможет себя защитить.",
			},
			{
				Text:   "Криокапсулы",
				Weight: 1,
				Kind:   "комната",
				Detail: "В секретной комнате стоят три криокапсулы. В них можно проспать год, чтобы скоротать время.",
			},
			{
				Text:   "Игровая комната",
				Weight: 1,
				Kind:   "комната",
				Detail: "Просторная комната со стеллажами настольных, компьютерных и азартных игр. Скучно точно не будет.",
			},
		},
	}
}

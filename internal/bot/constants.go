package bot

const (
	CommandStart  = "start"
	CommandHelp   = "help"
	CommandExport = "export"
)

// Reply keyboard labels. Operators send these back as plain text.
const (
	ButtonShowList = "📋 Clientlar"
	ButtonDelete   = "❌ Clientni o'chirish"
)

const (
	CallbackNextPage = "next_page"
	CallbackPrevPage = "prev_page"

	ButtonNextPage = "➡️ Keyingi"
	ButtonPrevPage = "⬅️ Oldingi"
)

const (
	msgStart = "Assalomu alaykum!\n" +
		"📋 Clientlarni ko‘rish uchun: " + ButtonShowList + "\n" +
		"❌ Clientni o‘chirish uchun: " + ButtonDelete

	msgHelp = `Buyruqlar:
/start - Menyuni ochish
/help - Ushbu yordam
/export - Barcha clientlarni Excel faylda olish`

	msgNoRecords      = "Foydalanuvchilar topilmadi."
	msgNoMoreRecords  = "Boshqa foydalanuvchilar yo‘q."
	msgAskDeleteID    = "Qaysi clientni o‘chirmoqchisiz? Iltimos ID kiriting:"
	msgInvalidID      = "ID faqat raqam bo‘lishi kerak!"
	msgDeleted        = "Client (ID: %d) muvaffaqiyatli o‘chirildi ✔"
	msgNotFound       = "Bunday ID mavjud emas ❌"
	msgUseMenu        = "Iltimos, menyudagi tugmalardan foydalaning."
	msgUnknownCommand = "Noma’lum buyruq. Boshlash uchun /start ni bosing."
	msgUnknownAction  = "Noma’lum amal."
	msgInternalError  = "Xatolik yuz berdi, birozdan so‘ng qayta urinib ko‘ring."
	msgExportCaption  = "📊 Clientlar ro‘yxati"

	exportFileName = "general_messages.xlsx"
)

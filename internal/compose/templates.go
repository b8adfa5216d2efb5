package compose

import "github.com/kernel/socialpost/internal/post"

// Placeholder is replaced by the extracted conversation context.
const Placeholder = "{context}"

// Templates maps each concrete style to its template pool.
type Templates map[post.Style][]string

// DefaultTemplates returns the built-in Thai template pools.
func DefaultTemplates() Templates {
	return Templates{
		post.Complaint: {
			"เหนื่อยใจมาก {context} ทำไมต้องเป็นแบบนี้ทุกทีเลย 😤",
			"ขอบ่นหน่อยนะ... {context} ไม่ไหวจะเคลียร์จริง ๆ",
			"วันนี้อีกแล้ว {context} ใครเข้าใจฉันบ้างไหม",
		},
		post.Funny: {
			"ขำไม่ไหว 555 {context} ใครจะไปคิดว่าจะออกมาแบบนี้ 😂",
			"เรื่องจริงไม่อิงนิยาย: {context} ปวดท้องเพราะหัวเราะเลย",
			"มีใครเคยเจอแบบนี้ไหม {context} ฮามาก",
		},
		post.Serious: {
			"อยากพูดเรื่องนี้อย่างจริงจัง {context} เราควรคิดให้ดีก่อนตัดสินใจ",
			"ได้ข้อคิดจากวันนี้ {context} บางเรื่องก็ไม่ควรมองข้าม",
			"ขอบันทึกไว้ {context} ทุกการกระทำมีผลตามมาเสมอ",
		},
		post.Excited: {
			"ตื่นเต้นสุด ๆ! {context} รอไม่ไหวแล้ว ✨",
			"ว้าววว {context} วันนี้ดีที่สุดเลย!",
			"ใจเต้นแรงมาก {context} อยากเล่าให้ทุกคนฟัง!",
		},
		post.Sad: {
			"เศร้าจัง... {context} 🥺",
			"บางวันก็แอบเหงา {context}",
			"น้ำตาจะไหล {context} ขอเวลาทำใจหน่อยนะ",
		},
		post.Reflective: {
			"นั่งคิดทบทวนอยู่นาน {context} ชีวิตก็สอนอะไรเราเสมอ",
			"มองย้อนกลับไป {context} เราโตขึ้นอีกนิดแล้วสินะ",
			"ก่อนนอนคืนนี้ {context} ขอบคุณทุกประสบการณ์",
		},
		post.Emotional: {
			"ความรู้สึกมันล้นจนพูดไม่ออก {context} ❤️",
			"ซึ้งใจมาก {context} ขอบคุณที่อยู่ตรงนี้",
			"หัวใจพองโต {context}",
		},
		post.Casual: {
			"ชิล ๆ วันนี้ {context} ก็โอเคนะ",
			"อัปเดตชีวิตหน่อย {context} แค่นั้นแหละ",
			"ไม่มีอะไรมาก {context} 👍",
		},
		post.Dramatic: {
			"ไม่อยากจะเชื่อ!!! {context} โลกทั้งใบพังทลายลงตรงหน้า",
			"นี่มันละครชัด ๆ {context} ใครก็ได้ช่วยที!",
			"ทุกอย่างเปลี่ยนไปในพริบตา {context} ฉันจะไม่มีวันลืม",
		},
	}
}

// Hashtags are appended to posts for tag-friendly platforms.
var Hashtags = []string{"#ชีวิต", "#คิดมาก", "#ความสุข", "#ตลก", "#สับสน", "#กังวล"}

// Emojis may be appended to posts for platforms without hashtags.
var Emojis = []string{"😊", "😂", "🥺", "❤️", "✨", "👍", "🙏"}
